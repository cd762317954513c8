// Command receiver is the passive chat client. It logs in with the
// receiver role, joins one room, and prints every delivered message as
// "sender: text" until the connection ends.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hjang25/roomchat/internal/proto"
	"github.com/hjang25/roomchat/internal/wire"
)

func main() {
	cmd := &cobra.Command{
		Use:          "receiver <server-addr> <username> <room>",
		Short:        "Passive roomchat client (receiver role)",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], args[1], args[2])
		},
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(addr, username, room string) error {
	conn, err := wire.Dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, msg := range []proto.Message{
		{Tag: proto.TagRLogin, Payload: username},
		{Tag: proto.TagJoin, Payload: room},
	} {
		if err := conn.Send(msg); err != nil {
			return err
		}
		reply, err := conn.Receive()
		if err != nil {
			return err
		}
		if reply.Tag != proto.TagOK {
			fmt.Fprintln(os.Stderr, reply.Payload)
			return fmt.Errorf("%s rejected", msg.Tag)
		}
	}

	for {
		msg, err := conn.Receive()
		if err != nil {
			// Server closed the connection; a clean end for a
			// passive client.
			return nil
		}
		switch msg.Tag {
		case proto.TagDelivery:
			_, sender, text, err := proto.SplitDelivery(msg.Payload)
			if err != nil {
				return errors.New("received message with invalid format")
			}
			fmt.Printf("%s: %s\n", sender, text)
		case proto.TagErr:
			fmt.Fprintln(os.Stderr, msg.Payload)
		}
	}
}
