// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package responder supplies simulated assistant replies.
package responder

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultDelay is how long a canned reply takes to "arrive".
const DefaultDelay = 2 * time.Second

// Responder produces assistant reply text for a prompt.
type Responder interface {
	// Reply returns the reply content. The text is opaque to the store.
	Reply(prompt string) string
	// Delay is how long the caller should wait before delivering the reply.
	Delay() time.Duration
}

// CannedReplies are the fixed replies Canned chooses from.
var CannedReplies = []string{
	"I'd be happy to help you with that! Based on your prompt, here are some key insights and recommendations that should address your needs effectively. Let me break this down into actionable steps that you can implement right away.",
	"That's an interesting question that touches on several important concepts. Let me provide you with a comprehensive analysis that covers the theoretical background, practical applications, and best practices in this area.",
	"Great prompt! I can see you're looking for detailed guidance on this topic. Here's what I recommend based on current best practices and industry standards. This approach has been proven effective in similar scenarios.",
	"I understand what you're asking for, and this is definitely something I can help with. Let me provide you with a structured response that covers all the key points you need to consider for your specific situation.",
	"Excellent question! This is a complex topic that requires careful consideration of multiple factors. Here's my analysis based on the latest research and practical experience in this field.",
}

// Canned picks a random entry from CannedReplies, ignoring the prompt.
type Canned struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
}

// CannedOption configures a Canned responder.
type CannedOption func(*Canned)

// WithSeed makes reply selection deterministic.
func WithSeed(seed int64) CannedOption {
	return func(c *Canned) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithDelay overrides DefaultDelay. Negative values are treated as zero.
func WithDelay(d time.Duration) CannedOption {
	return func(c *Canned) {
		if d < 0 {
			d = 0
		}
		c.delay = d
	}
}

// NewCanned creates a canned responder.
func NewCanned(opts ...CannedOption) *Canned {
	c := &Canned{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply returns one of CannedReplies.
func (c *Canned) Reply(prompt string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CannedReplies[c.rng.Intn(len(CannedReplies))]
}

// Delay returns the configured reply delay.
func (c *Canned) Delay() time.Duration {
	return c.delay
}

// =============================================================================
// REVEAL
// =============================================================================

// Reveal splits text into growing prefixes for a typing animation. Each
// prefix adds up to step characters; the last one is the full text.
// A step below one reveals a character at a time.
func Reveal(text string, step int) []string {
	if step < 1 {
		step = 1
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}

	frames := make([]string, 0, (len(runes)+step-1)/step)
	for end := step; ; end += step {
		if end >= len(runes) {
			frames = append(frames, text)
			return frames
		}
		frames = append(frames, string(runes[:end]))
	}
}
