package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/observability"
	"github.com/jonathan/lernify/internal/progress"
	"github.com/jonathan/lernify/internal/server"
	"github.com/spf13/cobra"
)

// learnerFlags select whose progress a read-only command prints.
type learnerFlags struct {
	cliFlags
	user   string
	domain string
}

var (
	progressShowFlags learnerFlags
	dashboardFlags    learnerFlags
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect stored roadmap progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the step states of one learner's roadmap",
	RunE:  runProgressShow,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print per-domain completion for one learner",
	RunE:  runDashboard,
}

func init() {
	bindLearnerFlags(progressShowCmd, &progressShowFlags)
	progressShowCmd.Flags().StringVar(&progressShowFlags.domain, "domain", "", "Roadmap domain")
	_ = progressShowCmd.MarkFlagRequired("domain")

	bindLearnerFlags(dashboardCmd, &dashboardFlags)

	progressCmd.AddCommand(progressShowCmd)
	rootCmd.AddCommand(progressCmd, dashboardCmd)
}

func bindLearnerFlags(cmd *cobra.Command, f *learnerFlags) {
	bindConfigFlags(cmd, &f.cliFlags)
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "Learner ID or email")
	_ = cmd.MarkFlagRequired("user")
}

// learnerSession is an opened store plus the resolved learner.
type learnerSession struct {
	service *progress.Service
	userID  string
	close   func()
}

func openLearnerSession(ctx context.Context, f *learnerFlags) (*learnerSession, error) {
	cfg, err := resolveConfig(&f.cliFlags)
	if err != nil {
		return nil, err
	}
	if cfg.Store == config.StoreMemory {
		return nil, fmt.Errorf("store %q holds no saved progress", cfg.Store)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userID, err := resolveLearner(ctx, st.accounts, f.user)
	if err != nil {
		st.close()
		return nil, err
	}

	return &learnerSession{
		service: progress.NewService(cat, st.progress),
		userID:  userID.String(),
		close:   st.close,
	}, nil
}

// resolveLearner accepts either a user ID or a registered email.
func resolveLearner(ctx context.Context, accounts server.DBClient, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		user, err := accounts.GetUser(ctx, id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to look up user: %w", err)
		}
		if user == nil {
			return uuid.Nil, fmt.Errorf("user %s not found", id)
		}
		return user.ID, nil
	}

	user, err := accounts.GetUserByEmail(ctx, strings.ToLower(ref))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return uuid.Nil, fmt.Errorf("user %q not found", ref)
	}
	return user.ID, nil
}

func runProgressShow(cmd *cobra.Command, _ []string) error {
	sess, err := openLearnerSession(cmd.Context(), &progressShowFlags)
	if err != nil {
		return err
	}
	defer sess.close()

	domain := progressShowFlags.domain
	if !sess.service.Catalog().HasDomain(domain) {
		return &catalog.UnknownDomainError{Domain: domain}
	}

	rec, err := sess.service.GetProgress(cmd.Context(), sess.userID, domain)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintProgress(rec)
	return nil
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	sess, err := openLearnerSession(cmd.Context(), &dashboardFlags)
	if err != nil {
		return err
	}
	defer sess.close()

	items, err := sess.service.Dashboard(cmd.Context(), sess.userID)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintDashboard(items)
	return nil
}
