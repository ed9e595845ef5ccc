package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/vaultigo/vaultigo/internal/breach"
	"github.com/vaultigo/vaultigo/internal/client"
	"github.com/vaultigo/vaultigo/internal/scan"
)

var (
	version   string
	buildDate string
)

// readPassword prompts without echoing the input.
func readPassword(prompt string) string {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(data)
}

func readLine(scanner *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// repl runs the interactive shell loop.
func repl(svc *client.Service, coordinator *scan.Coordinator, state *client.DeviceState) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("vaultigo> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, setup, login, logout, add, list, delete <id>, scan, last-scan, exit")
		case "setup":
			password := readPassword("Choose a master password: ")
			confirm := readPassword("Confirm master password: ")
			if err := svc.Setup(ctx, password, confirm); err != nil {
				fmt.Println("Setup failed:", err)
				continue
			}
			fmt.Println("Vault created")
		case "login":
			password := readPassword("Master password: ")
			if err := svc.Login(ctx, password); err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			fmt.Println("Unlocked")
		case "logout":
			svc.Logout()
			fmt.Println("Locked")
		case "add":
			website := readLine(scanner, "Website: ")
			username := readLine(scanner, "Username: ")
			password := readPassword("Password: ")
			notes := readLine(scanner, "Notes: ")
			entry, err := svc.AddEntry(ctx, website, username, password, notes)
			if err != nil {
				fmt.Println("Add failed:", err)
				continue
			}
			fmt.Println("Saved entry", entry.ID)
		case "list":
			entries, err := svc.ListEntries(ctx)
			if err != nil {
				fmt.Println("List failed:", err)
				continue
			}
			for _, e := range entries {
				if e.DecryptionFailed {
					fmt.Printf("ID: %s  %s  (decryption failed)\n", e.ID, e.Website)
					continue
				}
				fmt.Printf("ID: %s\nWebsite: %s\nUsername: %s\nPassword: %s\nNotes: %s\n---\n",
					e.ID, e.Website, e.Username, e.Password, e.Notes)
			}
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := svc.DeleteEntry(ctx, args[1]); err != nil {
				fmt.Println("Delete failed:", err)
				continue
			}
			fmt.Println("Entry deleted")
		case "scan":
			runScan(ctx, coordinator)
		case "last-scan":
			if t, ok := state.LastScan(); ok {
				fmt.Println("Last scanned at", t.Format("2006-01-02 15:04:05"))
			} else {
				fmt.Println("Never scanned")
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func runScan(ctx context.Context, coordinator *scan.Coordinator) {
	creds, err := coordinator.LoadCredentials(ctx)
	if err != nil {
		fmt.Println("Scan failed:", err)
		return
	}
	if len(creds) == 0 {
		fmt.Println("Nothing to scan")
		return
	}

	fmt.Printf("Checking %d credentials (this can take a while due to rate limits)...\n", len(creds))
	result, err := coordinator.Scan(ctx, creds)
	if err != nil {
		fmt.Println("Scan failed:", err)
		return
	}

	fmt.Printf("\nChecked %d credentials at %s\n", result.TotalChecked, result.CheckedAt.Format("15:04:05"))
	for _, p := range result.CompromisedPasswords {
		fmt.Printf("COMPROMISED PASSWORD  %s (%s): seen %d times in breaches\n", p.Website, p.Username, p.Occurrences)
	}
	for _, e := range result.CompromisedEmails {
		fmt.Printf("COMPROMISED EMAIL     %s (%s): %d breaches\n", e.Website, e.Email, len(e.Breaches))
	}
	for _, s := range result.SafeCredentials {
		status := "ok"
		if s.Unknown {
			status = "unknown (lookup failed)"
		}
		fmt.Printf("safe                  %s (%s): %s\n", s.Website, s.Username, status)
	}
	coordinator.Reset()
}

// main parses command-line flags and starts the interactive shell.
func main() {
	var (
		baseURL  string
		stateDir string
		showVer  bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&stateDir, "state", ".vaultigo", "local state directory")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Vaultigo Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	state, err := client.NewDeviceState(stateDir)
	if err != nil {
		fmt.Println("failed to init local state:", err)
		os.Exit(1)
	}
	userID, err := state.AnonymousID()
	if err != nil {
		fmt.Println("failed to init identity:", err)
		os.Exit(1)
	}

	httpClient := client.NewIdentityClient(userID)
	store := client.NewRemoteStore(httpClient, baseURL)
	svc := client.NewService(store)

	cache := breach.NewCache(state.CachePath())
	if err := cache.Load(); err != nil {
		fmt.Println("failed to load breach cache:", err)
	}
	oracle := breach.NewOracle(httpClient, "", store.EmailBreachURL(), cache)
	coordinator := scan.NewCoordinator(oracle, svc.Credentials, state.RecordScan)
	coordinator.OnProgress = func(done, total int) {
		fmt.Printf("\rProgress: %d/%d", done, total)
		if done == total {
			fmt.Println()
		}
	}

	fmt.Println("Type 'help' for a list of commands.")
	repl(svc, coordinator, state)
}
