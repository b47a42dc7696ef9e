package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd  Type = "add"
	TypeGive Type = "give"
	TypeShow Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GiveArgs selects a completed row by its 1-based position on screen.
type GiveArgs struct {
	Row int
}

type ShowArgs struct {
	Tab string
}

type Command struct {
	Type Type
	Raw  string
	Give *GiveArgs
	Show *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add takes no arguments"}
		}
		return Command{Type: TypeAdd, Raw: input}, nil
	case TypeGive:
		return parseGive(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseGive(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "give requires a row number"}
	}
	row, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || row < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid row: %s", args[0])}
	}
	return Command{Type: TypeGive, Raw: raw, Give: &GiveArgs{Row: row}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires completed or given"}
	}
	tab := strings.ToLower(args[0])
	if tab != "completed" && tab != "given" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown tab: %s", args[0])}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Tab: tab}}, nil
}
