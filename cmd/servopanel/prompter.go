// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// linePrompter answers dispatcher prompts from preset values, then
// from lines read on input. Without a terminal and without a preset
// answer, a question counts as dismissed.
type linePrompter struct {
	input       *bufio.Reader
	output      io.Writer
	interactive bool

	// assumeYes answers every confirmation with yes.
	assumeYes bool

	// answers preset Prompt results by label.
	answers map[string]string

	// confirmations preset Confirm results by message.
	confirmations map[string]bool
}

func newLinePrompter(input io.Reader, output io.Writer, interactive bool) *linePrompter {
	return &linePrompter{
		input:         bufio.NewReader(input),
		output:        output,
		interactive:   interactive,
		answers:       map[string]string{},
		confirmations: map[string]bool{},
	}
}

// Alert implements panel.Prompter.
func (prompter *linePrompter) Alert(_ context.Context, message string) {
	fmt.Fprintln(prompter.output, message)
}

// Confirm implements panel.Prompter.
func (prompter *linePrompter) Confirm(ctx context.Context, message string) (answer, ok bool) {
	if answer, ok := prompter.confirmations[message]; ok {
		return answer, true
	}
	if prompter.assumeYes {
		return true, true
	}
	line, ok := prompter.readLine(ctx, message+" [y/N]: ")
	if !ok {
		return false, false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, true
	default:
		return false, true
	}
}

// Prompt implements panel.Prompter. An empty line keeps initial.
func (prompter *linePrompter) Prompt(ctx context.Context, label, initial string) (value string, ok bool) {
	if answer, ok := prompter.answers[label]; ok {
		return answer, true
	}
	line, ok := prompter.readLine(ctx, fmt.Sprintf("%s [%s] ", label, initial))
	if !ok {
		return "", false
	}
	if line == "" {
		return initial, true
	}
	return line, true
}

func (prompter *linePrompter) readLine(ctx context.Context, question string) (string, bool) {
	if !prompter.interactive || ctx.Err() != nil {
		return "", false
	}
	fmt.Fprint(prompter.output, question)
	line, err := prompter.input.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(prompter.output)
		return "", false
	}
	return strings.TrimSpace(line), true
}
