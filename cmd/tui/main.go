package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	server := flag.String("server", "http://localhost:9090", "resultboard server base URL")
	dept := flag.String("dept", "CG", "department code, e.g. CG or CS")
	year := flag.String("year", "23", "two-digit admission year")
	flag.Parse()

	if addr := os.Getenv("RESULTBOARD_SERVER"); addr != "" && *server == "http://localhost:9090" {
		*server = addr
	}

	client := newAPIClient(*server)
	m := newDashboard(client, *dept, *year)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting program: %v\n", err)
		os.Exit(1)
	}
}
