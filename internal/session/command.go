package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vancomm/enigmind-server/internal/enigmind"
)

type Command string

const (
	CmdNoop    Command = "g"
	CmdTest    Command = "t"
	CmdBid     Command = "b"
	CmdForfeit Command = "f"
	CmdQuit    Command = "q"
)

// Maps known commands to number of arguments
var commandNargs = map[Command]int{
	CmdNoop:    0,
	CmdTest:    2,
	CmdBid:     1,
	CmdForfeit: 0,
	CmdQuit:    0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrQuit           = errors.New("player quit")
)

// Execute runs one command line against s:
//
//	t <code> <criterias>   test a code, e.g. "t 401 02"
//	b <code>               bid a code
//	f                      forfeit
//	q                      quit, returns [ErrQuit]
//	g                      no-op, returns the current state
func (s *State) Execute(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	cmd, args := Command(tokens[0]), tokens[1:]
	nargs, ok := commandNargs[cmd]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, tokens[0])
	}
	if nargs != len(args) {
		return fmt.Errorf("%q takes %d arguments, got %d", cmd, nargs, len(args))
	}

	switch cmd {
	case CmdTest:
		code, err := enigmind.ParseCode(args[0])
		if err != nil {
			return err
		}
		criterias, err := s.ParseCriterias(args[1])
		if err != nil {
			return err
		}
		_, err = s.Test(code, criterias)
		return err
	case CmdBid:
		code, err := enigmind.ParseCode(args[0])
		if err != nil {
			return err
		}
		_, err = s.Bid(code)
		return err
	case CmdForfeit:
		s.GiveUp()
		return nil
	case CmdQuit:
		return ErrQuit
	}
	return nil
}
