package bot

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/idlikadai3-prog/idli-kadai-frontend/services"
)

type loginState struct {
	Step     string // "username", "password"
	Username string
}

type registerState struct {
	Step     string // "username", "email", "password"
	Username string
	Email    string
}

func (b *Bot) getLoginState(userID int64) *loginState {
	b.loginMu.Lock()
	defer b.loginMu.Unlock()
	return b.loginStates[userID]
}

func (b *Bot) getRegisterState(userID int64) *registerState {
	b.registerMu.Lock()
	defer b.registerMu.Unlock()
	return b.registerStates[userID]
}

func (b *Bot) startLogin(chatID int64, userID int64) {
	ctx := context.Background()
	sess, ok := b.resumedSession(ctx, chatID, userID)
	if !ok {
		return
	}
	if sess.IsAuthenticated() {
		b.send(chatID, fmt.Sprintf("Already logged in as %s.", sess.Identity.Username))
		b.handleHome(chatID, userID)
		return
	}
	b.clearConversations(userID)
	b.loginMu.Lock()
	b.loginStates[userID] = &loginState{Step: "username"}
	b.loginMu.Unlock()
	b.send(chatID, "Enter your username:")
}

func (b *Bot) handleLoginText(chatID int64, userID int64, text string) {
	st := b.getLoginState(userID)
	if st == nil {
		return
	}
	switch st.Step {
	case "username":
		if text == "" {
			b.send(chatID, "Enter your username:")
			return
		}
		st.Username = text
		st.Step = "password"
		b.send(chatID, "Enter your password:")
	case "password":
		ctx := context.Background()
		err := b.sessions.Login(ctx, userID, st.Username, text)
		b.loginMu.Lock()
		delete(b.loginStates, userID)
		b.loginMu.Unlock()
		if err != nil {
			b.send(chatID, err.Error())
			b.send(chatID, "Try again with /login.")
			return
		}
		b.send(chatID, "Login successful!")
		b.handleHome(chatID, userID)
	}
}

func (b *Bot) startRegister(chatID int64, userID int64) {
	ctx := context.Background()
	sess, ok := b.resumedSession(ctx, chatID, userID)
	if !ok {
		return
	}
	if sess.IsAuthenticated() {
		b.send(chatID, fmt.Sprintf("Already logged in as %s.", sess.Identity.Username))
		b.handleHome(chatID, userID)
		return
	}
	b.clearConversations(userID)
	b.registerMu.Lock()
	b.registerStates[userID] = &registerState{Step: "username"}
	b.registerMu.Unlock()
	b.send(chatID, fmt.Sprintf("Choose a username (min %d characters):", services.MinUsernameLen))
}

func (b *Bot) handleRegisterText(chatID int64, userID int64, text string) {
	st := b.getRegisterState(userID)
	if st == nil {
		return
	}
	switch st.Step {
	case "username":
		if utf8.RuneCountInString(text) < services.MinUsernameLen {
			b.send(chatID, fmt.Sprintf("Username must be at least %d characters. Try again:", services.MinUsernameLen))
			return
		}
		st.Username = text
		st.Step = "email"
		b.send(chatID, "Enter your email:")
	case "email":
		if !services.ValidEmail(text) {
			b.send(chatID, "Please enter a valid email:")
			return
		}
		st.Email = text
		st.Step = "password"
		b.send(chatID, fmt.Sprintf("Choose a password (min %d characters):", services.MinPasswordLen))
	case "password":
		if utf8.RuneCountInString(text) < services.MinPasswordLen {
			b.send(chatID, fmt.Sprintf("Password must be at least %d characters. Try again:", services.MinPasswordLen))
			return
		}
		ctx := context.Background()
		err := b.sessions.Register(ctx, st.Username, st.Email, text)
		b.registerMu.Lock()
		delete(b.registerStates, userID)
		b.registerMu.Unlock()
		if err != nil {
			b.send(chatID, err.Error())
			b.send(chatID, "Try again with /register.")
			return
		}
		b.send(chatID, "Registration successful! Log in with /login.")
	}
}
