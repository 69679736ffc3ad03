package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fitchat/config"
	"fitchat/provider"
)

var (
	credEndpoint   string
	credDeployment string
)

func init() {
	credentialsSetCmd.Flags().StringVar(&credEndpoint, "endpoint", "", "Azure OpenAI resource endpoint")
	credentialsSetCmd.Flags().StringVar(&credDeployment, "deployment", "", "Azure OpenAI deployment name")

	rootCmd.AddCommand(credentialsCmd)
	credentialsCmd.AddCommand(credentialsSetCmd, credentialsDeleteCmd, credentialsListCmd, credentialsSSHKeysCmd)
}

var credentialsCmd = &cobra.Command{
	Use:     "credentials",
	Aliases: []string{"creds"},
	Short:   "Manage stored API keys",
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set <provider> [key]",
	Short: "Store the API key for a provider (prompts when key is omitted)",
	Long: `Store the API key for a provider. Azure OpenAI also accepts the resource
endpoint and deployment name, which fill azure_endpoint and azure_deployment
when the config file leaves them empty.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := providerArg(args[0])
		if err != nil {
			return err
		}

		var key string
		if len(args) == 2 {
			key = strings.TrimSpace(args[1])
		} else {
			key, err = readSecret("API key for " + string(id) + ": ")
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}
		}
		if key == "" {
			return errors.New("empty API key")
		}

		store, err := openCredentials()
		if err != nil {
			return err
		}
		cred := store.Get(id)
		cred.APIKey = key
		if cmd.Flags().Changed("endpoint") {
			cred.Endpoint = credEndpoint
		}
		if cmd.Flags().Changed("deployment") {
			cred.Deployment = credDeployment
		}
		if err := store.Set(id, cred); err != nil {
			return err
		}
		if err := saveCredentials(store); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Stored key for %s (%s).\n", id, store.Method())
		return nil
	},
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove the stored API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := providerArg(args[0])
		if err != nil {
			return err
		}

		store, err := openCredentials()
		if err != nil {
			return err
		}
		if !slices.Contains(store.IDs(), id) {
			fmt.Fprintf(cmd.OutOrStdout(), "No key stored for %s.\n", id)
			return nil
		}
		store.Delete(id)
		if err := saveCredentials(store); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed key for %s.\n", id)
		return nil
	},
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers with a stored key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCredentials()
		if err != nil {
			return err
		}

		ids := store.IDs()
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No keys stored.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tKEY\tENDPOINT\tDEPLOYMENT")
		for _, id := range ids {
			c := store.Get(id)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, maskKey(c.APIKey), orDash(c.Endpoint), orDash(c.Deployment))
		}
		return w.Flush()
	},
}

var credentialsSSHKeysCmd = &cobra.Command{
	Use:   "ssh-keys",
	Short: "List SSH keys usable for encrypting stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := config.FindSSHKeys()
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No ed25519 or RSA private keys found in ~/.ssh.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tTYPE\tPASSPHRASE")
		for _, k := range keys {
			locked := "no"
			if k.Encrypted {
				locked = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", k.Path, orDash(k.Type), locked)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nEnable with: fitchat config set security.method ssh_key && fitchat config set security.ssh_key_path <path>")
		return nil
	},
}

// openCredentials loads the credential store described by the [security]
// table. An encrypted SSH key is unlocked with FITCHAT_SSH_PASSPHRASE or, on
// a terminal, an interactive prompt.
func openCredentials() (*config.CredentialStore, error) {
	store := config.NewCredentialStoreFromConfig(cfg)
	store.SetPassphrase(os.Getenv(config.EnvSSHPassphrase))

	err := store.Load(cfg.DataDir())
	if errors.Is(err, config.ErrPassphraseRequired) {
		passphrase, perr := readSecret("SSH key passphrase: ")
		if perr != nil {
			return nil, fmt.Errorf("read passphrase: %w", perr)
		}
		store.SetPassphrase(passphrase)
		err = store.Load(cfg.DataDir())
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	return store, nil
}

func saveCredentials(store *config.CredentialStore) error {
	err := store.Save(cfg.DataDir())
	if errors.Is(err, config.ErrPassphraseRequired) {
		passphrase, perr := readSecret("SSH key passphrase: ")
		if perr != nil {
			return fmt.Errorf("read passphrase: %w", perr)
		}
		store.SetPassphrase(passphrase)
		err = store.Save(cfg.DataDir())
	}
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func providerArg(arg string) (provider.ProviderID, error) {
	id := provider.ProviderID(strings.ToLower(strings.TrimSpace(arg)))
	if _, err := provider.Describe(id); err != nil {
		return "", err
	}
	return id, nil
}

// maskKey shows only the last four characters of key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
