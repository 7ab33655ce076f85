package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/security/secretbox"
	"github.com/dropDatabas3/frontdesk/internal/store/pg"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

var (
	seedAgentRetellID string
	seedAgentTenantID string
	seedAgentName     string
)

// seedCmd siembra el plan base y, opcionalmente, registra un agente de
// voz con su bearer token. El signup trata el plan base como
// precondición de deployment: sin plan, el alta de tenants falla.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the base billing plan and optionally register a voice agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := context.Background()
		store, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{})
		if err != nil {
			return err
		}
		defer store.Close()

		plan, err := store.SeedPlan(ctx, cfg.Trial.PlanCode, "Base plan")
		if err != nil {
			return err
		}
		fmt.Printf("plan %q listo (id %s)\n", plan.Code, plan.ID)

		if seedAgentRetellID == "" {
			return nil
		}
		if seedAgentTenantID == "" {
			return fmt.Errorf("--agent requires --tenant")
		}

		box, err := secretbox.NewFromBase64(cfg.Security.SecretBoxMasterKey)
		if err != nil {
			return fmt.Errorf("secretbox: %w", err)
		}

		agent := &types.Agent{
			ID:            uuid.NewString(),
			TenantID:      seedAgentTenantID,
			RetellAgentID: seedAgentRetellID,
			DisplayName:   seedAgentName,
		}
		if err := store.CreateAgent(ctx, agent); err != nil {
			return fmt.Errorf("create agent: %w", err)
		}

		bearer, err := vault.New(box, store, store).IssueAgentBearerToken(ctx, agent.ID)
		if err != nil {
			return fmt.Errorf("issue bearer: %w", err)
		}
		// Única vez que el plaintext sale del vault: anotalo ahora.
		fmt.Printf("agente %s registrado (id %s)\nbearer token: %s\n",
			agent.RetellAgentID, agent.ID, bearer)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAgentRetellID, "agent", "", "retell agent id to register")
	seedCmd.Flags().StringVar(&seedAgentTenantID, "tenant", "", "tenant id the agent belongs to")
	seedCmd.Flags().StringVar(&seedAgentName, "agent-name", "", "display name for the agent")
}
