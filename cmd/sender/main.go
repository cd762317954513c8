// Command sender is the interactive chat client. It logs in with the
// sender role and maps typed lines to protocol commands: "/join <room>",
// "/leave", "/quit", and everything else broadcast to the current room.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hjang25/roomchat/internal/proto"
	"github.com/hjang25/roomchat/internal/wire"
)

func main() {
	cmd := &cobra.Command{
		Use:          "sender <server-addr> <username>",
		Short:        "Interactive roomchat client (sender role)",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(addr, username string) error {
	conn, err := wire.Dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Send(proto.Message{Tag: proto.TagSLogin, Payload: username}); err != nil {
		return err
	}
	reply, err := conn.Receive()
	if err != nil {
		return err
	}
	if reply.Tag != proto.TagOK {
		fmt.Fprintln(os.Stderr, reply.Payload)
		return errors.New("login rejected")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()

		var msg proto.Message
		switch {
		case line == "/quit":
			msg = proto.Message{Tag: proto.TagQuit, Payload: "bye"}
		case line == "/leave":
			msg = proto.Message{Tag: proto.TagLeave, Payload: "bye"}
		case strings.HasPrefix(line, "/join "):
			msg = proto.Message{Tag: proto.TagJoin, Payload: strings.TrimPrefix(line, "/join ")}
		default:
			msg = proto.Message{Tag: proto.TagSendAll, Payload: line}
		}

		if err := conn.Send(msg); err != nil {
			if errors.Is(err, proto.ErrTooLong) {
				fmt.Fprintln(os.Stderr, "message is too long")
				continue
			}
			return err
		}
		reply, err := conn.Receive()
		if err != nil {
			return err
		}
		if reply.Tag != proto.TagOK {
			fmt.Fprintln(os.Stderr, reply.Payload)
		}
		if msg.Tag == proto.TagQuit {
			return nil
		}
	}
	return scanner.Err()
}
