package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/ui"
)

const historyFile = "rest_reminder_history.txt"

// RunInteractive starts the interactive shell used when the binary is
// launched without arguments. Each line is parsed as a regular CLI
// invocation and dispatched through a fresh command tree.
func RunInteractive() {
	printBanner()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "RestReminder> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		ui.Alertf("Failed to initialize readline: %v", err)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C and Ctrl-D both leave the shell.
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				ui.Infof("Goodbye! Thank you for using Rest Reminder!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit", "q", "ex":
			ui.Infof("Goodbye! Thank you for using Rest Reminder!")
			return
		case "help", "h":
			showHelp()
			continue
		}

		args, err := splitArgs(line)
		if err != nil {
			ui.Alertf("Invalid command: %v. Type 'help' for available commands.", err)
			continue
		}

		root := NewRootCmd()
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			ui.Alertf("Invalid command. Type 'help' for available commands.")
		}
	}
}

// splitArgs splits a command line on whitespace while honoring single
// and double quotes, so timestamps like "2025-04-19 22:00:00" survive.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}

func printBanner() {
	fmt.Println(ui.Title.Render("Welcome to Rest Reminder Interactive Mode"))
	fmt.Println(ui.Title.Render("═══════════════════════════════════════════════"))
	fmt.Println(ui.Success.Render("Available commands:"))
	fmt.Printf("  %s              - Start monitoring and remind you to rest\n", ui.Accent.Render("rest"))
	fmt.Printf("  %s             - Count work time between two days\n", ui.Accent.Render("count"))
	fmt.Printf("  %s  - Count work time for a specific day\n", ui.Accent.Render("count-single-day"))
	fmt.Printf("  %s     - Count work time between precise timestamps\n", ui.Accent.Render("count-precise"))
	fmt.Printf("  %s              - Generate work time trend plot\n", ui.Accent.Render("plot"))
	fmt.Printf("  %s               - (FOR DEV USE ONLY) Generate plugin template\n", ui.Accent.Render("gen"))
	fmt.Printf("  %s               - Start web mode\n", ui.Accent.Render("web"))
	fmt.Printf("  %s              - Show this help message\n", ui.Accent.Render("help"))
	fmt.Printf("  %s       - Exit the program\n", ui.Accent.Render("exit / quit"))
	fmt.Println(ui.Title.Render("═══════════════════════════════════════════════"))
	fmt.Printf("Type a command and press Enter. Example: %s\n",
		ui.Success.Render("rest -t 3600 -a Cursor -l ~/Desktop/focus_log.txt"))
	fmt.Println()
}

func showHelp() {
	fmt.Println()
	fmt.Println(ui.Title.Render("Rest Reminder Commands:"))
	fmt.Println(ui.Title.Render("─────────────────────────────"))
	fmt.Println()

	fmt.Println(ui.Success.Render("MONITORING:"))
	fmt.Printf("  %s\n", ui.Accent.Render("rest [OPTIONS]"))
	fmt.Println("    -l, --log-to <PATH>     Log file location")
	fmt.Println("    -t, --time <SECONDS>    Work time before reminder (default: 3600)")
	fmt.Println("    -a, --app <APP>...      Applications to monitor")
	fmt.Println("    Example: rest -t 1800 -a Cursor,Code")
	fmt.Println()

	fmt.Println(ui.Success.Render("STATISTICS:"))
	fmt.Printf("  %s\n", ui.Accent.Render("count [OPTIONS]"))
	fmt.Println("    -l, --log-location <PATH>  Log file path")
	fmt.Println("    -s, --start <DATE>         Start date (YYYY-MM-DD)")
	fmt.Println("    -e, --end <DATE>           End date (YYYY-MM-DD)")
	fmt.Println("    Example: count -s 2024-01-01 -e 2024-01-31")
	fmt.Println()

	fmt.Printf("  %s\n", ui.Accent.Render("count-single-day [OPTIONS]"))
	fmt.Println("    -l, --log-location <PATH>  Log file path")
	fmt.Println("    -d, --day <DATE>           Date (YYYY-MM-DD)")
	fmt.Println("    Example: count-single-day -d 2024-01-15")
	fmt.Println()

	fmt.Printf("  %s\n", ui.Accent.Render("count-precise [OPTIONS]"))
	fmt.Println("    -l, --log-location <PATH>  Log file path")
	fmt.Println("    -s, --start <DATETIME>     Start time (YYYY-MM-DD HH:MM:SS)")
	fmt.Println("    -e, --end <DATETIME>       End time (YYYY-MM-DD HH:MM:SS)")
	fmt.Println("    Example: count-precise -s \"2024-01-15 09:00:00\" -e \"2024-01-15 17:00:00\"")
	fmt.Println()

	fmt.Println(ui.Success.Render("VISUALIZATION:"))
	fmt.Printf("  %s\n", ui.Accent.Render("plot [OPTIONS]"))
	fmt.Println("    -l, --log-location <PATH>   Log file path")
	fmt.Println("    -p, --plot-location <PATH>  Output plot file path")
	fmt.Println("    -s, --start <DATE>          Start date (YYYY-MM-DD)")
	fmt.Println("    -e, --end <DATE>            End date (YYYY-MM-DD)")
	fmt.Println("    Example: plot -s 2024-01-01 -e 2024-01-31 -p ~/work_trend.png")
	fmt.Println()

	fmt.Println(ui.Success.Render("TEMPLATE GENERATOR:"))
	fmt.Printf("  %s\n", ui.Accent.Render("gen [OPTIONS]"))
	fmt.Println("    -n, --name <FILENAME>   Template file name")
	fmt.Println()

	fmt.Println(ui.Success.Render("WEB MODE STARTER:"))
	fmt.Printf("  %s\n", ui.Accent.Render("web"))
	fmt.Println()

	fmt.Println(ui.Success.Render("SYSTEM:"))
	fmt.Println("  help, h                Show this help message")
	fmt.Println("  exit, quit, q, ex      Exit interactive mode")
	fmt.Println()
}
