package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/render"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses and their question banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		withBanks, _ := cmd.Flags().GetBool("banks")

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx := cmd.Context()
		if _, err := b.signedIn(ctx); err != nil {
			return err
		}

		courses, err := b.client.Courses(ctx)
		if err != nil {
			return errors.New(api.Message(err, api.KindLoad))
		}
		if len(courses) == 0 {
			fmt.Println("No courses found.")
			return nil
		}

		t := newTable("ID", "Name", "Description")
		for _, c := range courses {
			t.Row(c.ID, render.Truncate(c.Name, 32), render.Preview(c.Description, 40))
			if !withBanks {
				continue
			}
			banks, err := b.client.QuestionBanks(ctx, c.ID)
			if err != nil {
				t.Row("", "(banks unavailable)", api.Message(err, api.KindLoad))
				continue
			}
			for _, qb := range banks {
				t.Row("  "+qb.ID, "  "+render.Truncate(qb.Name, 30), fmt.Sprintf("%d questions", qb.QuestionCount))
			}
		}
		writeTable(os.Stdout, t)

		fmt.Printf("\n%d courses\n", len(courses))
		return nil
	},
}

func init() {
	coursesCmd.Flags().BoolP("banks", "b", false, "Also list each course's question banks")
}
