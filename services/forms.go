package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLen     = 3
	MinPasswordLen     = 6
	MinMenuNameLen     = 2
	MinMenuDescLen     = 10
	MinMenuCategoryLen = 2
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidateAccountForm checks a register or create-seller form before any
// network call is made.
func ValidateAccountForm(username, email, password string) []string {
	var problems []string
	if utf8.RuneCountInString(strings.TrimSpace(username)) < MinUsernameLen {
		problems = append(problems, fmt.Sprintf("username must be at least %d characters", MinUsernameLen))
	}
	if !ValidEmail(strings.TrimSpace(email)) {
		problems = append(problems, "please enter a valid email")
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	return problems
}

func ValidateMenuName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinMenuNameLen {
		return fmt.Errorf("name must be at least %d characters", MinMenuNameLen)
	}
	return nil
}

func ValidateMenuDescription(desc string) error {
	if utf8.RuneCountInString(strings.TrimSpace(desc)) < MinMenuDescLen {
		return fmt.Errorf("description must be at least %d characters", MinMenuDescLen)
	}
	return nil
}

func ValidateMenuCategory(category string) error {
	if utf8.RuneCountInString(strings.TrimSpace(category)) < MinMenuCategoryLen {
		return fmt.Errorf("category must be at least %d characters", MinMenuCategoryLen)
	}
	return nil
}

// ParseMenuPrice parses the price text the way the menu form sends it: a
// non-negative decimal.
func ParseMenuPrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("price must be a number")
	}
	if p < 0 {
		return 0, fmt.Errorf("price must be >= 0")
	}
	return p, nil
}
