// Command webserv runs the multi-virtual-host HTTP/1.1 origin server
// described by a JSON configuration file: program <config_file>. It serves
// until the process is killed; there is no clean-shutdown path. It exits 1
// on a usage, configuration, bind, or event-loop failure.
package main

import (
	"os"

	"github.com/yourusername/webserv/internal/logging"
	"github.com/yourusername/webserv/pkg/webserv/config"
	"github.com/yourusername/webserv/pkg/webserv/eventloop"
	"github.com/yourusername/webserv/pkg/webserv/listener"
)

func main() {
	if len(os.Args) != 2 {
		logging.Default.Fatalf("usage: %s <config_file>", os.Args[0])
	}

	servers, err := config.Load(os.Args[1])
	if err != nil {
		logging.Default.Fatalf("%v", err)
	}

	listeners, err := listener.Build(servers)
	if err != nil {
		logging.Default.Fatalf("%v", err)
	}
	logging.Default.Infof("bound %d listener(s)", len(listeners))

	loop, err := eventloop.New(listeners)
	if err != nil {
		logging.Default.Fatalf("event loop: %v", err)
	}

	if err := loop.Run(); err != nil {
		logging.Default.Fatalf("event loop: %v", err)
	}
}
