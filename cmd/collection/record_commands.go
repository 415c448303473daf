package main

import (
	"errors"
	"fmt"

	"vinyl-collection/internal/clientview"
	"vinyl-collection/internal/domains/record/model"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// recordFlags are shared by add and edit
type recordFlags struct {
	artist        string
	title         string
	year          int
	noYear        bool
	format        string
	notes         string
	favorite      bool
	catalogNumber string
	matrixInfo    string
	condition     string
}

func (f *recordFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.artist, "artist", "", "Artist name")
	flags.StringVar(&f.title, "title", "", "Release title")
	flags.IntVar(&f.year, "year", 0, "Release year")
	flags.BoolVar(&f.noYear, "no-year", false, "Clear the release year")
	flags.StringVar(&f.format, "format", "", "Format (LP, EP, Single, CD, Cassette, Digital, Other)")
	flags.StringVar(&f.notes, "notes", "", "Free-form notes")
	flags.BoolVar(&f.favorite, "favorite", false, "Mark as favorite")
	flags.StringVar(&f.catalogNumber, "catalog-number", "", "Label catalog number")
	flags.StringVar(&f.matrixInfo, "matrix", "", "Matrix / runout information")
	flags.StringVar(&f.condition, "condition", "", "Media/sleeve condition")
}

func (f *recordFlags) draft(flags *pflag.FlagSet) clientview.Draft {
	d := clientview.Draft{
		Artist:        f.artist,
		Title:         f.title,
		Format:        model.Format(f.format),
		Notes:         f.notes,
		Favorite:      f.favorite,
		CatalogNumber: f.catalogNumber,
		MatrixInfo:    f.matrixInfo,
		Condition:     f.condition,
	}
	if flags.Changed("year") && !f.noYear {
		d.Year = model.IntPtr(f.year)
	}
	return d
}

// patch contains only the flags the user set
func (f *recordFlags) patch(flags *pflag.FlagSet) (model.Patch, error) {
	values := map[string]interface{}{}
	set := func(name, key string, v interface{}) {
		if flags.Changed(name) {
			values[key] = v
		}
	}
	set("artist", "artist", f.artist)
	set("title", "title", f.title)
	set("year", "year", f.year)
	if f.noYear {
		values["year"] = nil
	}
	set("format", "format", f.format)
	set("notes", "notes", f.notes)
	set("favorite", "favorite", f.favorite)
	set("catalog-number", "catalogNumber", f.catalogNumber)
	set("matrix", "matrixInfo", f.matrixInfo)
	set("condition", "condition", f.condition)
	return model.NewPatch(values)
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			api, err := ctx.api()
			if err != nil {
				return err
			}
			record, err := api.Get(cmd.Context(), id)
			if err != nil {
				if clientview.IsNotFound(err) {
					return fmt.Errorf("record %d not found", id)
				}
				return err
			}
			if jsonOut {
				return writeJSON(cmd, record)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, detailRows(*record), nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags recordFlags
	var lookup bool
	var pick int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record, optionally completed from Discogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := flags.draft(cmd.Flags())

			return ctx.withView(func(view *clientview.View) error {
				if lookup {
					api, err := ctx.api()
					if err != nil {
						return err
					}
					hits, err := api.SearchCatalog(cmd.Context(), draft.Artist, draft.Title)
					if err != nil {
						return fmt.Errorf("discogs lookup: %w", err)
					}
					if len(hits) == 0 {
						fmt.Fprintln(cmd.ErrOrStderr(), "No Discogs matches; adding as entered")
					} else {
						if pick < 1 || pick > len(hits) {
							return fmt.Errorf("--pick must be between 1 and %d", len(hits))
						}
						hit := hits[pick-1]
						log.Debug().Int64("discogs_id", hit.ID).Str("title", hit.Title).Msg("Applying catalog hit")
						draft = clientview.ApplyHit(draft, hit)
					}
				}

				draft.ApplyDefaults()
				if err := draft.Validate(); err != nil {
					return fmt.Errorf("invalid record: %w", err)
				}
				created, err := view.Create(cmd.Context(), draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", describe(*created))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Fill empty fields from the first Discogs match")
	cmd.Flags().IntVar(&pick, "pick", 1, "Which Discogs match to use with --lookup (1-based)")
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd.Flags())
			if err != nil {
				return err
			}
			if len(patch) == 0 {
				return errors.New("nothing to change; pass at least one field flag")
			}
			return ctx.withView(func(view *clientview.View) error {
				updated, err := view.Update(cmd.Context(), id, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", describe(*updated))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newFavCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle the favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withView(func(view *clientview.View) error {
				if err := view.Load(cmd.Context()); err != nil {
					return err
				}
				updated, err := view.ToggleFavorite(cmd.Context(), id)
				if errors.Is(err, clientview.ErrNotInSnapshot) {
					return fmt.Errorf("record %d not found", id)
				}
				if err != nil {
					return err
				}
				state := "removed from"
				if updated.Favorite {
					state = "added to"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s favorites\n", describe(*updated), state)
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record (undo with `collection undo`)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withView(func(view *clientview.View) error {
				removed, err := view.Delete(cmd.Context(), id)
				if err != nil {
					if clientview.IsNotFound(err) {
						return fmt.Errorf("record %d not found", id)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", describe(*removed))
				return nil
			})
		},
	}
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the most recently deleted record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withView(func(view *clientview.View) error {
				restored, err := view.Undo(cmd.Context())
				if errors.Is(err, clientview.ErrNothingToUndo) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s - %s as #%d\n", restored.Artist, restored.Title, restored.ID)
				return nil
			})
		},
	}
}
