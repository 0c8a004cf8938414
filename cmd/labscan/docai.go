package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gardar/labscan/pkg/gdocai"
	"github.com/gardar/labscan/pkg/ocrinput"
)

var docaiCmd = &cobra.Command{
	Use:   "docai <document>",
	Short: "OCR a document with Google Document AI",
	Long: `Send a PDF or image to the configured Google Document AI processor and
save the artifacts of the response. The saved JSON can be passed to extract
and review later without calling the API again.

Requires docai.project_id, docai.location and docai.processor_id in the
config and GOOGLE_APPLICATION_CREDENTIALS in the environment.

Examples:
  # Save text and the full response
  docai --text report.txt --json report.json report.pdf

  # Extract the fields right away and keep the page images
  docai --extract --images pages/ scan.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runDocAI,
}

func init() {
	f := docaiCmd.Flags()
	f.String("text", "", "path to save the OCR text")
	f.String("json", "", "path to save the Document AI response as JSON")
	f.String("images", "", "directory to save the page images")
	f.Bool("extract", false, "extract the lab report fields and print them")
	f.String("format", "", "output format of --extract: json or yaml (overrides config)")
	f.Float64("threshold", 0, "low confidence threshold (overrides config)")
	rootCmd.AddCommand(docaiCmd)
}

func runDocAI(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("docai"); err != nil {
		return err
	}
	src := args[0]

	textPath, _ := cmd.Flags().GetString("text")
	jsonPath, _ := cmd.Flags().GetString("json")
	imagesDir, _ := cmd.Flags().GetString("images")
	extract, _ := cmd.Flags().GetBool("extract")
	if textPath == "" && jsonPath == "" && imagesDir == "" && !extract {
		return eris.New("at least one of --text, --json, --images or --extract is required")
	}

	mimeType, err := gdocai.MimeTypeFor(src)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return eris.Wrapf(err, "read %s", src)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "docai"), zap.String("source", src))
	log.Info("processing document", zap.String("processor", cfg.DocAI.Processor().ProcessorName()))

	doc, err := gdocai.ProcessDocument(ctx, content, mimeType, cfg.DocAI.Processor())
	if err != nil {
		return err
	}

	if textPath != "" {
		if err := os.WriteFile(textPath, []byte(gdocai.Text(doc)), 0o644); err != nil {
			return eris.Wrapf(err, "write %s", textPath)
		}
		log.Info("text written", zap.String("path", textPath))
	}

	if jsonPath != "" {
		out, err := gdocai.ToJSON(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(jsonPath, []byte(out), 0o644); err != nil {
			return eris.Wrapf(err, "write %s", jsonPath)
		}
		log.Info("response written", zap.String("path", jsonPath))
	}

	if imagesDir != "" {
		n, err := saveImages(imagesDir, gdocai.PageImages(doc))
		if err != nil {
			return err
		}
		log.Info("page images written", zap.String("dir", imagesDir), zap.Int("count", n))
	}

	if extract {
		res := newExtractor(cmd, log).Extract(ocrinput.FromDocument(doc))
		return encode(cmd.OutOrStdout(), res, outputFormat(cmd))
	}
	return nil
}

// saveImages writes page-001.png, page-002.jpg, ... into dir
func saveImages(dir string, images [][]byte) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "create %s", dir)
	}
	n := 0
	for i, data := range images {
		if len(data) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("page-%03d.%s", i+1, imageExt(data)))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return n, eris.Wrapf(err, "write %s", path)
		}
		n++
	}
	return n, nil
}

// imageExt names the image format, "img" when it cannot be decoded
func imageExt(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "img"
	}
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
