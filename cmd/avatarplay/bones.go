package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"avatar-retarget/internal/blend"
	"avatar-retarget/internal/registry"
)

func newBonesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bones [name...]",
		Short: "List the rig's bones, or show how names resolve against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sk, err := loadRig(cfg)
			if err != nil {
				return err
			}
			reg := registry.Build(sk, registry.Options{Prefixes: cfg.Prefixes, Logger: logger})

			if len(args) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), resolveTable(reg, args))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), bonesTable(reg))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bones, %d keys\n", sk.Name, sk.Len(), reg.Len())
			return nil
		},
	}
	return cmd
}

func bonesTable(reg *registry.Registry) string {
	sk := reg.Skeleton()
	rows := make([][]string, 0, sk.Len())
	for _, b := range sk.Bones() {
		parent := "-"
		if p := sk.Parent(b); p != nil {
			parent = p.Name
		}
		canonical := reg.CanonicalOf(b)
		rule := blend.DefaultPolicy(canonical)
		limit := ""
		if rule.Limit != nil {
			limit = fmt.Sprintf("y±%.1f z±%.1f", rule.Limit.Y.Max, rule.Limit.Z.Max)
		}
		rows = append(rows, []string{
			strconv.Itoa(b.Index()),
			b.Name,
			parent,
			canonical,
			sideLabel(blend.SideOf(canonical)),
			strconv.FormatFloat(rule.Rate, 'f', 2, 64),
			limit,
		})
	}
	return renderTable(
		[]string{"#", "Bone", "Parent", "Canonical", "Side", "Rate", "Limit"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func resolveTable(reg *registry.Registry, names []string) string {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		bone, ok := reg.Resolve(name)
		target := "(unresolved)"
		if ok {
			target = bone.Name
		}
		rows = append(rows, []string{name, reg.Canonical(name), target})
	}
	return renderTable([]string{"Name", "Canonical", "Bone"}, rows, nil)
}

func sideLabel(s blend.Side) string {
	switch s {
	case blend.Left:
		return "left"
	case blend.Right:
		return "right"
	default:
		return "center"
	}
}
