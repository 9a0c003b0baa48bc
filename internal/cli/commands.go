package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/compose"
	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/registry"
	"github.com/yungbote/avatar-backend/internal/services"
)

type selectionFlags struct {
	values map[domain.Category]*int
}

func addSelectionFlags(cmd *cobra.Command) *selectionFlags {
	f := &selectionFlags{values: make(map[domain.Category]*int, len(domain.Categories))}
	for _, c := range domain.Categories {
		f.values[c] = cmd.Flags().Int(string(c), 0, fmt.Sprintf("Part id for %s", c))
	}
	return f
}

func (f *selectionFlags) selection() domain.Selection {
	var sel domain.Selection
	for _, c := range domain.Categories {
		sel = sel.With(c, *f.values[c])
	}
	return sel
}

// newService builds an in-process service. Keys from the hash codec only
// resolve within one invocation; the compact codec is self-describing.
func newService(cfg *config.Config, cat *catalog.Catalog, codecName string) (services.AvatarService, *registry.Registry, error) {
	if codecName == "" {
		codecName = cfg.Registry.Codec
	}
	var (
		codec registry.Codec
		store registry.Store
		err   error
	)
	switch codecName {
	case config.CodecCompact:
		codec, err = registry.NewCompactCodec(cat)
	case config.CodecHash:
		codec, err = registry.NewHashCodec(cfg.Registry.KeyLength)
		store = registry.NewMemoryStore()
	default:
		err = fmt.Errorf("unknown codec %q (want hash or compact)", codecName)
	}
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.New(codec, store, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	svc, err := services.NewAvatarService(nil, cat, reg, compose.NewEngine(cat, nil, nil), nil)
	if err != nil {
		return nil, nil, err
	}
	return svc, reg, nil
}

func newOptionsCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the selectable parts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			cfg, cat, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			svc, _, err := newService(cfg, cat, "")
			if err != nil {
				return err
			}
			opts := svc.Options(cmd.Context())
			if format == formatYAML {
				node, err := optionsNode(opts)
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), format, node)
			}
			return writeValue(cmd.OutOrStdout(), format, opts)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	return cmd
}

func newComposeCmd(root *rootOptions) *cobra.Command {
	var (
		out   string
		codec string
	)
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose the avatar for an explicit selection",
		Long: `Compose the avatar for an explicit selection and write the SVG.

Examples:
  avatarctl compose --head 5 --face 25 --body 23 > avatar.svg
  avatarctl compose --head 5 --face 25 --body 23 --codec compact -o avatar.svg`,
		Args: cobra.NoArgs,
	}
	sel := addSelectionFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the SVG to this file instead of stdout")
	cmd.Flags().StringVar(&codec, "codec", "", "Key codec: hash or compact (defaults to the configured codec)")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, cat, err := root.load(cmd.Context())
		if err != nil {
			return err
		}
		svc, _, err := newService(cfg, cat, codec)
		if err != nil {
			return err
		}
		res, err := svc.Generate(cmd.Context(), sel.selection())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "key: %s\n", res.Key)
		return writeSVG(cmd.OutOrStdout(), out, res.SVG)
	}
	return cmd
}

func newRandomCmd(root *rootOptions) *cobra.Command {
	var (
		out   string
		codec string
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Compose an avatar from a uniformly random selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cat, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			svc, _, err := newService(cfg, cat, codec)
			if err != nil {
				return err
			}
			res, err := svc.Random(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "key: %s\nselection: %s\n", res.Key, res.Selection.Canonical())
			return writeSVG(cmd.OutOrStdout(), out, res.SVG)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the SVG to this file instead of stdout")
	cmd.Flags().StringVar(&codec, "codec", "", "Key codec: hash or compact (defaults to the configured codec)")
	return cmd
}

func newEncodeCmd(root *rootOptions) *cobra.Command {
	var codec string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the key for a selection without composing it",
		Args:  cobra.NoArgs,
	}
	sel := addSelectionFlags(cmd)
	cmd.Flags().StringVar(&codec, "codec", "", "Key codec: hash or compact (defaults to the configured codec)")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, cat, err := root.load(cmd.Context())
		if err != nil {
			return err
		}
		svc, reg, err := newService(cfg, cat, codec)
		if err != nil {
			return err
		}
		s := sel.selection()
		if err := svc.Validate(s); err != nil {
			return err
		}
		key, err := reg.Encode(cmd.Context(), s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
		return err
	}
	return cmd
}

func newDecodeCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "decode <key>",
		Short: "Print the selection behind a compact key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			cfg, cat, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			svc, _, err := newService(cfg, cat, config.CodecCompact)
			if err != nil {
				return err
			}
			res, err := svc.Get(cmd.Context(), domain.Key(args[0]))
			if errors.Is(err, domain.ErrKeyNotFound) {
				return fmt.Errorf("key %q is not a compact key for this catalog", args[0])
			}
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), format, res.Selection)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	return cmd
}
