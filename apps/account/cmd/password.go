package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var passwordCost int

// passwordCmd 生成 bcrypt 哈希，便于直接写库初始化账号
var passwordCmd = &cobra.Command{
	Use:   "gen-password [plain]",
	Short: "Print the bcrypt hash of a password (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plain string
		if len(args) == 1 {
			plain = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			plain = strings.TrimRight(line, "\r\n")
		}
		if plain == "" {
			return errors.New("password must not be empty")
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hashed))
		return nil
	},
}

func init() {
	passwordCmd.Flags().IntVar(&passwordCost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
}
