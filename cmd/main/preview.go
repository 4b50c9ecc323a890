package main

import (
	"fmt"
	"os"
	"time"

	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/CTAG07/Crossero/pkg/schedule"
	"github.com/CTAG07/Crossero/pkg/site"
	"github.com/spf13/cobra"
)

// runPreview renders the post of one puzzle to stdout. No image is exported, so the
// page points at the default image.
func (a *app) runPreview(cmd *cobra.Command, args []string) error {
	tmplPath, _ := cmd.Flags().GetString("template")
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format(schedule.DateLayout)
	} else if _, err := schedule.ParseDate(date); err != nil {
		return err
	}

	s, err := a.newSite()
	if err != nil {
		return err
	}
	catalog, err := puzzledata.LoadCatalog(a.config.Site.DataPath, a.logger)
	if err != nil {
		return err
	}
	p, ok := catalog.Get(args[0])
	if !ok {
		return fmt.Errorf("puzzle %q not found in %s", args[0], a.config.Site.DataPath)
	}

	page := s.BuildPost(p, site.Slugify(site.DisplayTitle(p)), date, nil)
	var out []byte
	if tmplPath == "" {
		out, err = s.RenderPost(page)
	} else {
		var content []byte
		content, err = os.ReadFile(tmplPath)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		out, err = s.RenderPostWith(string(content), page)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("Rendered preview", "id", p.ID, "slug", page.Slug, "bytes", len(out))
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
