package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// askPassword 从终端读取密码，不回显
func askPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	password, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}
