// File: internal/services/chat/config.go
package chat

import "fmt"

// WelcomeMessage seeds every new thread as the assistant's opening
// turn. It is cosmetic: a thread whose seeding failed still works.
const WelcomeMessage = "Hey there! " +
	"I'm here to quiz you one question at a time based on the key topics from your teacher's unit review sheet. " +
	"If you get a question right, we'll move forward. If you're unsure or make a mistake, no worries — " +
	"I'll guide you with a follow-up or hint to help you lock it in. Ready to start?"

type Config struct {
	// MaxThreadMessages caps how many messages a thread may hold before
	// further turns are rejected.
	MaxThreadMessages int
	// MaxMessageLength caps a single user message, in characters.
	MaxMessageLength int
}

func (c *Config) Validate() error {
	if c.MaxThreadMessages <= 0 {
		return fmt.Errorf("max thread messages must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max message length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		MaxThreadMessages: 100,
		MaxMessageLength:  4000,
	}
}
