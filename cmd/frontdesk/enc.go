package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/frontdesk/internal/security/secretbox"
)

// encCmd cifra un valor con la clave maestra configurada. Útil para
// preparar secretos a mano (fixtures, soporte) sin exponer la clave.
var encCmd = &cobra.Command{
	Use:   "enc <plaintext>",
	Short: "Encrypt a value with the configured master key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		box, err := secretbox.NewFromBase64(cfg.Security.SecretBoxMasterKey)
		if err != nil {
			return err
		}
		enc, err := box.Encrypt(args[0])
		if err != nil {
			return err
		}
		fmt.Println(enc)
		return nil
	},
}
