package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/abdul-hamid-achik/gfy/internal/gfy/config"
	"github.com/abdul-hamid-achik/gfy/internal/gfy/output"
	"github.com/abdul-hamid-achik/gfy/pkg/gfycat"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload videos to Gfycat",
	Long: `Upload one or more local videos.

Private uploads are unpublished once encoding completes, so the command waits
for encoding before it exits.

Examples:
  gfy upload clip.mp4                               # Single file
  gfy upload clip.mp4 --title "Cat" --tags cat,cute # With metadata
  gfy upload clip.mp4 --private                     # Unlisted once encoded
  gfy upload clip.mp4 --wait                        # Wait for encoding
  gfy upload --manifest clips/gfy.yaml              # Per-file settings`,
	RunE: runUpload,
}

var (
	uploadTitle       string
	uploadDescription string
	uploadTags        []string
	uploadNsfw        string
	uploadPrivate     bool
	uploadNoAudio     bool
	uploadWait        bool
	uploadManifest    string
)

func init() {
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "Gfycat title")
	uploadCmd.Flags().StringVar(&uploadDescription, "description", "", "Gfycat description")
	uploadCmd.Flags().StringSliceVarP(&uploadTags, "tags", "t", nil, "Tags (comma-separated)")
	uploadCmd.Flags().StringVar(&uploadNsfw, "nsfw", "clean", "Rating: clean, adult or offensive")
	uploadCmd.Flags().BoolVar(&uploadPrivate, "private", false, "Unpublish once encoding completes")
	uploadCmd.Flags().BoolVar(&uploadNoAudio, "no-audio", false, "Strip the audio track")
	uploadCmd.Flags().BoolVarP(&uploadWait, "wait", "w", false, "Wait for encoding to complete")
	uploadCmd.Flags().StringVar(&uploadManifest, "manifest", "", "YAML manifest with per-file settings")
}

type uploadResult struct {
	File     string                 `json:"file"`
	GfyName  string                 `json:"gfy_name,omitempty"`
	URL      string                 `json:"url,omitempty"`
	Size     int64                  `json:"size,omitempty"`
	Private  bool                   `json:"private,omitempty"`
	Finalize gfycat.FinalizeOutcome `json:"finalize,omitempty"`
	Status   gfycat.TaskState       `json:"status,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

type uploadSummary struct {
	Uploaded []uploadResult `json:"uploaded"`
	Failed   []uploadResult `json:"failed"`
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	entries, err := uploadEntries(args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no files specified")
	}

	ctx := GetContext()
	var summary uploadSummary
	var result *multierror.Error

	// Several entries share one counter instead of a bar per file.
	single := len(entries) == 1
	var batch *output.Batch
	if !single {
		batch = printer.Batch(len(entries))
	}

	for _, e := range entries {
		res, err := uploadOne(ctx, e, single)
		if batch != nil {
			batch.Done(filepath.Base(e.Path))
		}
		if err != nil {
			res.Error = err.Error()
			summary.Failed = append(summary.Failed, res)
			result = multierror.Append(result, fmt.Errorf("%s: %w", e.Path, err))
			printer.ItemFailed(e.Path, err)
			continue
		}
		summary.Uploaded = append(summary.Uploaded, res)
	}
	if batch != nil {
		batch.Finish()
	}

	if jsonOutput {
		if err := printer.JSON(summary); err != nil {
			return err
		}
	} else if len(entries) > 1 {
		printer.Summary(len(summary.Uploaded), len(summary.Failed))
	}
	return result.ErrorOrNil()
}

// uploadEntries resolves the files to upload from the arguments or the
// manifest. Flags apply to every argument; a manifest carries its own
// settings per file.
func uploadEntries(args []string) ([]config.Entry, error) {
	if uploadManifest != "" {
		manifest, err := config.LoadBatchConfig(fsys, uploadManifest)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		paths, err := manifest.Paths(fsys, filepath.Dir(uploadManifest))
		if err != nil {
			return nil, err
		}
		entries := make([]config.Entry, 0, len(paths))
		for _, p := range paths {
			entries = append(entries, manifest.Resolve(p))
		}
		return entries, nil
	}

	nsfw, err := parseNsfw(uploadNsfw)
	if err != nil {
		return nil, err
	}
	entries := make([]config.Entry, 0, len(args))
	for _, path := range args {
		entries = append(entries, config.Entry{
			Path:        path,
			Title:       uploadTitle,
			Description: uploadDescription,
			Tags:        uploadTags,
			Private:     uploadPrivate,
			Nsfw:        int(nsfw),
			NoAudio:     uploadNoAudio,
		})
	}
	return entries, nil
}

// uploadOne uploads a single entry. Transfer and encoding indicators are
// drawn only when show is set.
func uploadOne(ctx context.Context, e config.Entry, show bool) (uploadResult, error) {
	res := uploadResult{File: e.Path, Private: e.Private}

	var progress io.Writer
	if show {
		size := int64(-1)
		if info, err := fsys.Stat(e.Path); err == nil && info.Size() > 0 {
			size = info.Size()
		}
		t := printer.Transfer(filepath.Base(e.Path), size)
		defer t.Finish()
		progress = t
	}

	up, err := apiClient.UploadFromFile(ctx, gfycat.UploadOptions{
		Path:        e.Path,
		Title:       e.Title,
		Description: e.Description,
		Tags:        e.Tags,
		Nsfw:        gfycat.NsfwCode(e.Nsfw),
		Private:     e.Private,
		NoAudio:     e.NoAudio,
		Progress:    progress,
	})
	if err != nil {
		return res, err
	}

	res.GfyName = up.GfyName
	res.Size = up.Size
	res.URL = gfycat.Gfycat{GfyName: up.GfyName}.PageURL()

	switch {
	case up.Finalize != nil:
		fin, err := waitFinalize(ctx, up.Finalize, show)
		if err != nil {
			return res, err
		}
		res.Finalize = fin.Outcome
		if fin.Status != nil {
			res.Status = fin.Status.Task
		}
		if fin.Outcome != gfycat.FinalizeUnpublished {
			// The gfycat exists but is still public.
			return res, fmt.Errorf("%s was uploaded but not made private (%s): %w", up.GfyName, fin.Outcome, finalizeErr(fin))
		}
	case uploadWait:
		st, err := waitForEncoding(ctx, up.GfyName, show)
		if err != nil {
			return res, err
		}
		res.Status = st.Task
	}

	printer.GfycatUploaded(e.Path, res.URL, nil)
	if res.Finalize == gfycat.FinalizeUnpublished {
		printer.Indent("private")
	}
	return res, nil
}

func finalizeErr(fin gfycat.FinalizeResult) error {
	if fin.Err != nil {
		return fin.Err
	}
	return errors.New(string(fin.Outcome))
}

func waitFinalize(ctx context.Context, task *gfycat.FinalizeTask, show bool) (gfycat.FinalizeResult, error) {
	if show {
		spinner := printer.Waiting(fmt.Sprintf("Encoding %s...", task.GfyName))
		defer spinner.Finish()
	}
	return task.Wait(ctx)
}

// waitForEncoding polls until the gfycat reaches a terminal state.
func waitForEncoding(ctx context.Context, name string, show bool) (*gfycat.GfycatStatus, error) {
	if show {
		spinner := printer.Waiting(fmt.Sprintf("Encoding %s...", name))
		defer spinner.Finish()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.GetTimeout("finalize"))
	defer cancel()

	st, err := apiClient.PollGfycatStatus(ctx, name, cfg.GetPollInterval())
	if err != nil {
		return nil, err
	}
	if st.Task == gfycat.TaskError {
		return st, fmt.Errorf("%w: %s", gfycat.ErrEncodingFailed, st.TaskError.String())
	}
	return st, nil
}
