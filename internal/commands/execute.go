package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add  func() (Result, error)
	Give func(GiveArgs) (Result, error)
	Show func(ShowArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add()
	case TypeGive:
		if handlers.Give == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "give handler not configured"}
		}
		return handlers.Give(*cmd.Give)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
