// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy defines the rules a new account password must meet.
type PasswordPolicy struct {
	MinLength int

	// RequireLetter and RequireDigit demand at least one of each.
	RequireLetter bool
	RequireDigit  bool

	// MaxConsecutiveRepeats caps runs of the same character (0 = disabled).
	MaxConsecutiveRepeats int

	ForbidCommonPasswords bool

	// ForbidEmailSimilarity rejects passwords built from the account email.
	ForbidEmailSimilarity bool
}

// PasswordPolicy returns the policy for rider and driver accounts.
func (s SecurityConfig) PasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:             s.PasswordMinLength,
		RequireLetter:         true,
		RequireDigit:          true,
		MaxConsecutiveRepeats: 4,
		ForbidCommonPasswords: true,
		ForbidEmailSimilarity: true,
	}
}

// Problems returns every rule password breaks; an empty result means it passes.
func (p PasswordPolicy) Problems(password, email string) []string {
	var problems []string

	if n := len([]rune(password)); n < p.MinLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters (got %d)", p.MinLength, n))
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if p.RequireLetter && !hasLetter {
		problems = append(problems, "password must contain at least one letter")
	}
	if p.RequireDigit && !hasDigit {
		problems = append(problems, "password must contain at least one digit")
	}

	if p.MaxConsecutiveRepeats > 0 && maxConsecutiveRepeats(password) > p.MaxConsecutiveRepeats {
		problems = append(problems, fmt.Sprintf("password cannot have more than %d consecutive repeated characters", p.MaxConsecutiveRepeats))
	}
	if p.ForbidCommonPasswords && isCommonPassword(password) {
		problems = append(problems, "password is too common and easily guessable")
	}
	if p.ForbidEmailSimilarity && isSimilarToEmail(password, email) {
		problems = append(problems, "password is too similar to the email address")
	}
	return problems
}

// Validate returns an error listing every broken rule, or nil.
func (p PasswordPolicy) Validate(password, email string) error {
	if problems := p.Problems(password, email); len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func maxConsecutiveRepeats(password string) int {
	longest, current := 0, 0
	var last rune
	for i, r := range password {
		if i > 0 && r == last {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
		last = r
	}
	return longest
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "passw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "qwerty123": {},
	"qwertyuiop": {}, "abc12345": {}, "iloveyou1": {}, "letmein1": {},
	"welcome1": {}, "admin123": {}, "rideshare1": {}, "carpool1": {},
	"driver123": {}, "rider123": {}, "trustno1": {}, "football1": {},
}

func isCommonPassword(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}

// isSimilarToEmail reports whether the password contains the email's local
// part (or vice versa) when that part is at least 4 characters long.
func isSimilarToEmail(password, email string) bool {
	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	if len(local) < 4 {
		return false
	}
	pw := strings.ToLower(password)
	return strings.Contains(pw, local) || strings.Contains(local, pw)
}
