package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return fmt.Sprintf("(%s)", a.session.User.Username)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to AuthKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("akli %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, home, status, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, status, exit")
			}

		case "status":
			a.Status(ctx)

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			if !a.requireLogin() {
				continue
			}
			a.WhoAmI(ctx)
		case "home":
			if !a.requireLogin() {
				continue
			}
			a.Home(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", parts[0])
		}
	}

}

// Status reports the local session state and whether the server answers.
func (a *App) Status(ctx context.Context) {
	if a.isLoggedIn() {
		fmt.Printf("Logged in as %s.\n", a.session.User.Username)
	} else {
		fmt.Println("Not logged in.")
	}

	if err := a.authService.Ping(ctx); err != nil {
		fmt.Println("Server: unreachable.")
		return
	}
	fmt.Println("Server: OK.")
}

func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		fmt.Println("Please log in first.")
		return false
	}
	return true
}
