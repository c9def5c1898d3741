package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elitehr/elite-time/pkg/envcrypt"
)

var envfileKey string

var envfileCmd = &cobra.Command{
	Use:   "envfile",
	Short: "Encrypt or decrypt environment files",
}

var envfileEncryptCmd = &cobra.Command{
	Use:   "encrypt <path>",
	Short: "Encrypt a file to <path>.enc",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, err := envcrypt.EncryptFile(masterKey(), args[0])
		if err != nil {
			log.Fatalf("encrypt: %v", err)
		}
		fmt.Println("Wrote", out)
	},
}

var envfileDecryptCmd = &cobra.Command{
	Use:   "decrypt <path.enc>",
	Short: "Decrypt a file encrypted with envfile encrypt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := strings.TrimSuffix(args[0], ".enc")
		if out == args[0] {
			out = args[0] + ".dec"
		}
		if err := envcrypt.DecryptFile(masterKey(), args[0], out); err != nil {
			log.Fatalf("decrypt: %v", err)
		}
		fmt.Println("Wrote", out)
	},
}

// masterKey prefers the flag, then the environment, then the loaded
// config so the command works without a full config file.
func masterKey() string {
	if envfileKey != "" {
		return envfileKey
	}
	if key := os.Getenv("MASTER_KEY"); key != "" {
		return key
	}
	cfg, err := loadConfig(".")
	if err != nil || cfg.Security.MasterKey == "" {
		log.Fatal("no master key: pass --key or set MASTER_KEY")
	}
	return cfg.Security.MasterKey
}

func init() {
	envfileCmd.PersistentFlags().StringVar(&envfileKey, "key", "", "master key (defaults to MASTER_KEY env or config)")
	envfileCmd.AddCommand(envfileEncryptCmd)
	envfileCmd.AddCommand(envfileDecryptCmd)
}
