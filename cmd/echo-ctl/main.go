package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"echo/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	cli.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: echo-ctl [--socket path] say <words...>")
		cli.PrintDefaults()
	}
	cli.Parse()

	args := cli.Args()
	if len(args) < 2 || args[0] != ipc.CmdSay {
		cli.Usage()
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: ipc.CmdSay, Text: strings.Join(args[1:], " ")}
	if err := ipc.SendCommand(*socket, msg); err != nil {
		fmt.Println("echo daemon not running:", err)
		os.Exit(1)
	}
}
