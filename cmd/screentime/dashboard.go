package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"screentime-go/internal/model"
)

var childrenCmd = &cobra.Command{
	Use:   "children",
	Short: "Show today's overview of every child",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Overview")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		parent, err := a.Parent(ctx)
		if err != nil {
			return err
		}
		ov, err := a.Overview(ctx)
		if err != nil {
			return err
		}
		return printer.Overview(ov, parent.DisplayName)
	},
}

var childCmd = &cobra.Command{
	Use:   "child ID",
	Short: "Show a child's usage, weekly chart and rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ChildDetail")
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.ChildDetail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printer.ChildDetail(d)
	},
}

var childAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a child",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		avatar, _ := cmd.Flags().GetString("avatar")

		a, err := newApp(cmd, "AddChild")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.AddChild(cmd.Context(), model.NewChild{Name: name, Age: age, Avatar: avatar})
		if err != nil {
			return err
		}
		printer.Success("Added %s (id %s)", c.Name, c.ID)
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		markRead, _ := cmd.Flags().GetBool("mark-read")

		operation := "Notifications"
		if markRead {
			operation = "MarkAllRead"
		}
		a, err := newApp(cmd, operation)
		if err != nil {
			return err
		}
		defer a.Close()

		if !markRead {
			feed, err := a.Notifications(cmd.Context())
			if err != nil {
				return err
			}
			return printer.Feed(feed)
		}

		feed, err := a.MarkAllRead(cmd.Context())
		if err != nil {
			return err
		}
		if err := printer.Feed(feed); err != nil {
			return err
		}
		printer.Success("All notifications marked read")
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage rules",
}

var rulesSetCmd = &cobra.Command{
	Use:   "set RULE_ID",
	Short: "Turn a rule on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("enabled") {
			return fmt.Errorf("--enabled is required")
		}
		enabled, _ := cmd.Flags().GetBool("enabled")

		a, err := newApp(cmd, "SetRuleEnabled")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetRuleEnabled(cmd.Context(), args[0], enabled); err != nil {
			return err
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		printer.Success("Rule %s %s", args[0], state)
		return nil
	},
}

func init() {
	childCmd.AddCommand(childAddCmd)
	childAddCmd.Flags().String("name", "", "Child's name")
	childAddCmd.Flags().Int("age", 0, "Child's age")
	childAddCmd.Flags().String("avatar", "", "Avatar emoji")
	_ = childAddCmd.MarkFlagRequired("name")

	alertsCmd.Flags().Bool("mark-read", false, "Mark every notification read")

	rulesCmd.AddCommand(rulesSetCmd)
	rulesSetCmd.Flags().Bool("enabled", false, "Whether the rule is active (--enabled=false to disable)")
}
