// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"time"

	"github.com/jeranaias/chatdeck/internal/model"
)

// =============================================================================
// SAMPLE CONVERSATIONS
// =============================================================================

// Samples returns the demonstration conversations written on first run.
// Timestamps are relative to now; IDs are fixed.
func Samples(now time.Time) []model.Conversation {
	day := 24 * time.Hour

	return []model.Conversation{
		sample("static-1", "How to learn React?", now.Add(-2*day),
			user("msg-1", "How to learn React effectively? I'm a beginner in web development."),
			assistant("msg-2", reactSteps),
			user("msg-3", "Can you recommend some good practice projects for beginners?"),
			assistant("msg-4", reactProjects),
		),
		sample("static-2", "JavaScript async/await explained", now.Add(-day),
			user("msg-5", "Can you explain async/await in JavaScript? I find promises confusing."),
			assistant("msg-6", asyncAwait),
		),
		sample("static-3", "CSS Flexbox vs Grid", now.Add(-6*time.Hour),
			user("msg-7", "When should I use CSS Flexbox vs CSS Grid?"),
			assistant("msg-8", flexboxGrid),
		),
		sample("static-4", "Best VS Code extensions for developers", now.Add(-2*time.Hour),
			user("msg-9", "What are the best VS Code extensions for web development?"),
			assistant("msg-10", vscodeExtensions),
		),
		sample("static-5", "API design best practices", now.Add(-30*time.Minute),
			user("msg-11", "What are some best practices for designing REST APIs?"),
			assistant("msg-12", restAPIs),
		),
	}
}

// sampleMessage is a message without its timestamp; sample assigns one
// minute steps from the conversation start.
type sampleMessage struct {
	id      string
	role    model.Role
	content string
}

func user(id, content string) sampleMessage {
	return sampleMessage{id: id, role: model.RoleUser, content: content}
}

func assistant(id, content string) sampleMessage {
	return sampleMessage{id: id, role: model.RoleAssistant, content: content}
}

func sample(id, title string, created time.Time, msgs ...sampleMessage) model.Conversation {
	conv := model.Conversation{
		ID:        id,
		Title:     title,
		Messages:  make([]model.Message, 0, len(msgs)),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for i, m := range msgs {
		conv.Messages = append(conv.Messages, model.Message{
			ID:        m.id,
			Role:      m.role,
			Content:   m.content,
			Timestamp: created.Add(time.Duration(i) * time.Minute),
		})
	}
	return conv
}

const reactSteps = `Great question! Here's a structured approach to learning React:

1. **Master JavaScript fundamentals** first - ES6+, promises, async/await
2. **Start with the official React tutorial** at react.dev
3. **Build small projects** - todo app, weather app, etc.
4. **Learn React hooks** - useState, useEffect, useContext
5. **Practice with create-react-app** for quick setup
6. **Join the React community** - follow React docs, blogs, and forums

Would you like me to elaborate on any of these steps?`

const reactProjects = `Absolutely! Here are some excellent beginner projects:

**Easy Level:**
• Todo List with add/delete/complete functionality
• Counter app with increment/decrement
• Simple calculator

**Intermediate Level:**
• Weather app using a free API
• Movie search app with TMDB API
• Personal portfolio website
• Simple blog with routing

**Advanced Beginner:**
• Shopping cart with local storage
• Chat application
• Expense tracker with charts

Start with the easy ones and gradually move up!`

const asyncAwait = "I'd be happy to explain async/await! It's actually a cleaner way to work with promises.\n\n" +
	"**Think of it this way:**\n" +
	"• `async` = \"This function will wait for something\"\n" +
	"• `await` = \"Wait here until this promise finishes\"\n\n" +
	"**Basic example:**\n" +
	"```javascript\n" +
	"// Old way with promises\n" +
	"fetch('api/data')\n" +
	"  .then(response => response.json())\n" +
	"  .then(data => console.log(data))\n\n" +
	"// New way with async/await\n" +
	"async function getData() {\n" +
	"  const response = await fetch('api/data')\n" +
	"  const data = await response.json()\n" +
	"  console.log(data)\n" +
	"}\n" +
	"```\n\n" +
	"It reads like normal code but handles asynchronous operations!"

const flexboxGrid = `**Flexbox** is for **1-dimensional** layouts:
• Navigation bars
• Button groups
• Centering items
• Equal height columns

**Grid** is for **2-dimensional** layouts:
• Page layouts (header, sidebar, main, footer)
• Card galleries
• Complex responsive designs
• Magazine-style layouts

**Rule of thumb:**
• Use Flexbox when arranging items in a single row/column
• Use Grid when you need rows AND columns simultaneously

They work great together too! Grid for overall layout, Flexbox for component internals.`

const vscodeExtensions = `Here are my top VS Code extensions for web development:

**Essential:**
• Prettier - Code formatter
• ESLint - JavaScript linting
• Auto Rename Tag - Sync HTML tag editing
• Bracket Pair Colorizer - Color matching brackets

**Productivity:**
• Live Server - Local development server
• GitLens - Enhanced Git capabilities
• Path Intellisense - File path autocomplete
• Thunder Client - API testing

**Theme & UI:**
• Material Icon Theme - Better file icons
• One Dark Pro - Popular dark theme

**Framework Specific:**
• ES7+ React snippets - React code snippets
• Vetur - Vue.js support

These will significantly boost your development productivity!`

const restAPIs = "Great question! Here are key REST API design principles:\n\n" +
	"**URL Structure:**\n" +
	"• Use nouns, not verbs: `/users` not `/getUsers`\n" +
	"• Use HTTP methods: GET, POST, PUT, DELETE\n" +
	"• Be consistent with naming\n\n" +
	"**HTTP Status Codes:**\n" +
	"• 200 - Success\n" +
	"• 201 - Created\n" +
	"• 400 - Bad Request\n" +
	"• 401 - Unauthorized\n" +
	"• 404 - Not Found\n" +
	"• 500 - Server Error\n\n" +
	"**Response Format:**\n" +
	"• Always return JSON\n" +
	"• Include metadata (pagination, counts)\n" +
	"• Consistent error format\n\n" +
	"**Security:**\n" +
	"• Use HTTPS always\n" +
	"• Implement authentication\n" +
	"• Rate limiting\n" +
	"• Input validation\n\n" +
	"**Documentation:**\n" +
	"• Use tools like Swagger/OpenAPI\n" +
	"• Provide examples\n" +
	"• Keep it updated\n\n" +
	"Would you like me to dive deeper into any of these areas?"
