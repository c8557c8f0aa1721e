package main

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"comfymcp/client"
	"comfymcp/config"
	"comfymcp/generate"
	"comfymcp/logger"
)

var (
	genNegative string
	genSaveDir  string
	genWidth    int
	genHeight   int
)

var generateCmd = &cobra.Command{
	Use:   "generate <positive prompt>",
	Short: "Generate a single image from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genNegative, "negative", "", "negative prompt")
	generateCmd.Flags().StringVar(&genSaveDir, "save-dir", "", "directory to save the image in")
	generateCmd.Flags().IntVar(&genWidth, "width", 0, "image width in pixels")
	generateCmd.Flags().IntVar(&genHeight, "height", 0, "image height in pixels")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return err
	}
	if errs := cfg.ValidateRequired(); len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(append([]string{"configuration incomplete:"}, errs...), "\n"))
	}

	c := client.NewComfyClient(cfg.ComfyURL,
		client.WithExternalURL(cfg.ComfyURLExternal),
		client.WithOutputDir(cfg.ComfyOutputDir))

	gen, err := generate.New(cfg, c)
	if err != nil {
		return err
	}

	// progress feed is best-effort; generation proceeds without it
	if monitor, err := c.NewProgressMonitor(); err == nil {
		defer monitor.Close()
		go func() {
			var bar *progressbar.ProgressBar
			for ev := range monitor.Events {
				switch ev.Type {
				case "executing":
					bar = nil
				case "progress":
					if bar == nil {
						bar = progressbar.Default(int64(ev.Max), "generating")
					}
					bar.Set(ev.Value)
				}
			}
		}()
	}

	result, err := gen.Generate(cmd.Context(), generate.Request{
		PositivePrompt: strings.Join(args, " "),
		NegativePrompt: genNegative,
		SavePath:       genSaveDir,
		Width:          genWidth,
		Height:         genHeight,
	})
	if err != nil {
		return err
	}

	if result.URL != "" {
		fmt.Println(result.URL)
	} else {
		fmt.Println(result.Path)
	}
	return nil
}
