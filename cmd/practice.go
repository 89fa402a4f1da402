/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/lexdrill/internal/app"
	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/infrastructure/config"
)

// practiceCmd represents the practice command
var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive practice session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		level, _ := cmd.Flags().GetInt("level")
		size, _ := cmd.Flags().GetInt("size")
		typeFlag, _ := cmd.Flags().GetString("type")

		var typ entity.ChallengeType
		if typeFlag != "" {
			if typ = entity.ParseChallengeType(typeFlag); typ == "" {
				return fmt.Errorf("unknown challenge type %q", typeFlag)
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if level <= 0 {
			level = cfg.Practice.UserLevel
		}
		if size <= 0 {
			size = cfg.Practice.SessionSize
		}

		container, err := app.NewContainer(cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		if err := container.Progress.Migrate(cmd.Context()); err != nil {
			return err
		}

		plan, err := container.Practice.StartSession(cmd.Context(), userID, level, size, typ)
		if err != nil {
			return err
		}
		if len(plan.Challenges) == 0 {
			fmt.Println("No challenges available. Check the dictionary configuration.")
			return nil
		}
		if plan.Reason == entity.SessionDegraded {
			fmt.Printf("Only %d challenge(s) could be prepared.\n\n", len(plan.Challenges))
		}

		reader := bufio.NewReader(os.Stdin)
		for i, pc := range plan.Challenges {
			fmt.Printf("--- Challenge %d/%d [%s] ---\n", i+1, len(plan.Challenges), pc.Payload.Type)
			printPayload(pc.Payload)

			for {
				fmt.Print("> ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				res, err := container.Practice.VerifyAnswer(cmd.Context(), plan.ID, i, strings.TrimSpace(line))
				switch {
				case errors.Is(err, entity.ErrEmptyAnswer), errors.Is(err, entity.ErrInvalidAnswer):
					fmt.Println("Please enter a valid answer.")
					continue
				case err != nil:
					return err
				}
				fmt.Println(res.Message)
				if res.Completed {
					fmt.Printf("Score: %d\n\n", res.Score)
					break
				}
			}
		}
		fmt.Println("Session complete.")
		return nil
	},
}

func printPayload(p *entity.ChallengePayload) {
	fmt.Println(p.Question)
	if p.Sentence != "" {
		fmt.Println(p.Sentence)
	}
	if p.LettersText != "" {
		fmt.Println(p.LettersText)
	}
	if p.TokensText != "" {
		fmt.Println(p.TokensText)
	}
	for i, opt := range p.Options {
		fmt.Printf("  %d) %s\n", i, opt)
	}
}

func init() {
	rootCmd.AddCommand(practiceCmd)

	practiceCmd.Flags().String("user", "default", "learner identifier")
	practiceCmd.Flags().Int("level", 0, "learner level 0-100 (default from config)")
	practiceCmd.Flags().Int("size", 0, "number of challenges (default from config)")
	practiceCmd.Flags().String("type", "", "pin every challenge to one variant (e.g. tarjetas)")
}
