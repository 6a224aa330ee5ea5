package main

import (
	"errors"
	"fmt"

	"github.com/carbonlog/internal/db"
	"github.com/spf13/cobra"
)

var initUserFlags struct {
	name     string
	email    string
	password string
}

func init() {
	initUserCmd.Flags().StringVar(&initUserFlags.name, "name", "", "display name")
	initUserCmd.Flags().StringVar(&initUserFlags.email, "email", "", "login email (defaults to SUPER_ROOT_EMAIL)")
	initUserCmd.Flags().StringVar(&initUserFlags.password, "password", "", "login password (defaults to SUPER_ROOT_PASSWORD)")
	rootCmd.AddCommand(initUserCmd)
}

var initUserCmd = &cobra.Command{
	Use:   "init-user",
	Short: "Create a user account when it does not exist yet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		name := firstNonEmpty(initUserFlags.name, a.cfg.SuperRootUserName)
		email := firstNonEmpty(initUserFlags.email, a.cfg.SuperRootEmail)
		password := firstNonEmpty(initUserFlags.password, a.cfg.SuperRootPassword)
		if email == "" || password == "" {
			return errors.New("email and password are required")
		}

		created, err := db.EnsureUser(db.DB, name, email, password)
		if err != nil {
			return fmt.Errorf("创建用户失败: %w", err)
		}
		if !created {
			fmt.Fprintln(cmd.OutOrStdout(), "用户已存在，无需初始化")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "用户创建成功: %s\n", email)
		return nil
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
