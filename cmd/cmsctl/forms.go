package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/cms-in-go/pkg/db"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/cms-in-go/pkg/server/store/gorm"
)

// formsCmd represents the forms command
var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Inspect forms",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'forms' requires a subcommand (list, show)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms",
	Run: func(cmd *cobra.Command, args []string) {
		forms, err := openFormsStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		list, err := forms.ListForms()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list forms: %v\n", err)
			os.Exit(1)
		}
		if err := writeFormList(os.Stdout, list); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var formsShowCmd = &cobra.Command{
	Use:   "show <form-id>",
	Short: "Show a form with its fields",
	Long: `Show a form, its confirmation behavior and its fields in display order.

Example:
  cmsctl forms show 3
  cmsctl forms show 3 --output json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid form id %q\n", args[0])
			os.Exit(1)
		}

		forms, err := openFormsStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		form, err := forms.FetchForm(uint(id))
		if err != nil {
			if errors.Is(err, store.ErrFormNotFound) {
				fmt.Fprintf(os.Stderr, "Form %d not found\n", id)
			} else {
				fmt.Fprintf(os.Stderr, "Failed to fetch form: %v\n", err)
			}
			os.Exit(1)
		}

		if err := writeForm(os.Stdout, form, output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(formsCmd)
	formsCmd.AddCommand(formsListCmd)
	formsCmd.AddCommand(formsShowCmd)
	formsShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func openFormsStore() (store.FormsStore, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormstore.NewFormsStore(database), nil
}

func writeFormList(w io.Writer, forms []model.Form) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONFIRMATION\tNOTIFY")
	for _, f := range forms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Name, f.ConfirmationBehavior, f.NotificationEmail)
	}
	return tw.Flush()
}

func writeForm(w io.Writer, form *model.Form, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(form)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	fmt.Fprintf(w, "Form %d: %s\n", form.ID, form.Name)
	if form.ShowText() {
		fmt.Fprintln(w, "Confirmation: show text")
	} else {
		fmt.Fprintf(w, "Confirmation: redirect to %s\n", form.ConfirmationRedirect)
	}
	if form.NotificationEmail != "" {
		fmt.Fprintf(w, "Notify: %s\n", form.NotificationEmail)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tNAME\tLABEL\tTYPE\tREQUIRED")
	for _, field := range form.Fields {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", field.Position, field.Key(), field.Label, field.FieldType, field.Required)
	}
	return tw.Flush()
}
