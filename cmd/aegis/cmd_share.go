package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/display"
	"aegis/internal/faults"
	"aegis/internal/store"
)

var shareFlags struct {
	id   int64
	user string
	role string
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Grant a user access to an assessment, or list grants",
	Long: "Share grants a role (viewer, client, assessor, admin) on an assessment.\n" +
		"Granting again replaces the user's existing role. Without --user, lists\n" +
		"the current grants.",
	RunE: runShare,
}

func init() {
	f := shareCmd.Flags()
	f.Int64Var(&shareFlags.id, "id", 0, "Assessment id (required)")
	f.StringVar(&shareFlags.user, "user", "", "User identifier")
	f.StringVar(&shareFlags.role, "role", store.RoleViewer, "Role: viewer|client|assessor|admin")
	_ = shareCmd.MarkFlagRequired("id")
}

func runShare(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.st.GetAssessment(shareFlags.id); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if shareFlags.user == "" {
		ss, err := a.st.ListShares(shareFlags.id)
		if err != nil {
			return err
		}
		if len(ss) == 0 {
			fmt.Fprintln(out, "No grants.")
			return nil
		}
		fmt.Fprintln(out, display.SharesTable(ss))
		return nil
	}

	switch shareFlags.role {
	case store.RoleViewer, store.RoleClient, store.RoleAssessor, store.RoleAdmin:
	default:
		return faults.Newf(faults.Validation, "share", "unknown role %q", shareFlags.role)
	}
	if err := a.st.UpsertShare(&store.Share{
		AssessmentID: shareFlags.id,
		UserID:       shareFlags.user,
		Role:         shareFlags.role,
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Granted %s to %s on assessment #%d\n", display.Role(shareFlags.role), shareFlags.user, shareFlags.id)
	return nil
}
