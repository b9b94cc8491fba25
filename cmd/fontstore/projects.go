// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kraklabs/fontstore/internal/errors"
	"github.com/kraklabs/fontstore/internal/ui"
	"github.com/kraklabs/fontstore/pkg/backend"
	"github.com/kraklabs/fontstore/pkg/font"
)

// ListResult is the --json output of list.
type ListResult struct {
	Backend  string          `json:"backend"`
	Projects []*font.Project `json:"projects"`
	Count    int             `json:"count"`
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("list", `Usage: fontstore list

Lists the recorded projects, sorted by id.
`)
	if _, err := a.parse(fs, args); err != nil {
		return helpOrErr(err)
	}

	return a.withBackend(ctx, func(b backend.Backend) error {
		ids, err := b.ListProjects(ctx)
		if err != nil {
			return errors.FromBackend("list projects", err)
		}

		result := ListResult{Backend: string(b.Mode()), Projects: []*font.Project{}}
		for _, id := range ids {
			p, err := b.GetProject(ctx, id)
			if err != nil {
				return errors.FromBackend("read project", err)
			}
			if p == nil {
				// Deleted between the two calls.
				continue
			}
			result.Projects = append(result.Projects, p)
		}
		result.Count = len(result.Projects)

		return a.emit(result, func(p *ui.Printer) {
			if result.Count == 0 {
				p.Infof("No projects. Create one with 'fontstore create <id>'")
				return
			}
			rows := make([][]string, 0, result.Count)
			for _, pr := range result.Projects {
				rows = append(rows, []string{pr.ID, formatTime(pr.CreatedAt), formatTime(pr.ModifiedAt)})
			}
			p.Table([]string{"ID", "CREATED", "MODIFIED"}, rows)
		})
	})
}

// CreateResult is the --json output of create.
type CreateResult struct {
	ID      string `json:"id"`
	Backend string `json:"backend"`
}

func runCreate(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("create", `Usage: fontstore create <id> [options]

Creates a project. Without --doc the project starts from the default font
document: family name set to the id, 1000 units per em, no axes, no sources.
`)
	docPath := fs.String("doc", "", "Read the initial font document from a JSON file")
	family := fs.String("family", "", "Family name for the default document")
	pos, err := a.parse(fs, args, "id")
	if err != nil {
		return helpOrErr(err)
	}
	id := pos[0]

	var doc *font.Document
	switch {
	case *docPath != "" && *family != "":
		return errors.NewInputError("Conflicting options", "--doc and --family cannot be combined", "Set the family name inside the document file")
	case *docPath != "":
		d, err := readDocument(*docPath)
		if err != nil {
			return err
		}
		doc = d
	case *family != "":
		d := font.DefaultDocument(id)
		d.Info.FamilyName = *family
		doc = &d
	}

	return a.withBackend(ctx, func(b backend.Backend) error {
		created, err := b.CreateProject(ctx, id, doc)
		if err != nil {
			return errors.FromBackend("create project", err)
		}
		result := CreateResult{ID: created, Backend: string(b.Mode())}
		return a.emit(result, func(p *ui.Printer) {
			p.Successf("Created project %s", created)
		})
	})
}

func readDocument(path string) (*font.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInputError("Cannot read document file", err.Error(), "Check the --doc path")
	}
	var doc font.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewInputError("Invalid document file", err.Error(), "The file must hold a JSON font document")
	}
	return &doc, nil
}

// DeleteResult is the --json output of delete.
type DeleteResult struct {
	ID      string `json:"id"`
	Existed bool   `json:"existed"`
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("delete", `Usage: fontstore delete <id> --yes

Deletes a project together with its font data, glyphs and background
images. Deleting an unknown id succeeds.
`)
	yes := fs.Bool("yes", false, "Confirm the deletion")
	pos, err := a.parse(fs, args, "id")
	if err != nil {
		return helpOrErr(err)
	}
	id := pos[0]

	if !*yes {
		return errors.NewInputError(
			"Refusing to delete without confirmation",
			"Deleting a project removes all of its glyphs and images",
			fmt.Sprintf("Run: fontstore delete %s --yes", id),
		)
	}

	return a.withBackend(ctx, func(b backend.Backend) error {
		p, err := b.GetProject(ctx, id)
		if err != nil {
			return errors.FromBackend("read project", err)
		}
		if err := b.DeleteProject(ctx, id); err != nil {
			return errors.FromBackend("delete project", err)
		}

		result := DeleteResult{ID: id, Existed: p != nil}
		return a.emit(result, func(pr *ui.Printer) {
			if result.Existed {
				pr.Successf("Deleted project %s", id)
			} else {
				pr.Warningf("Project %s did not exist", id)
			}
		})
	})
}

// ShowResult is the --json output of show.
type ShowResult struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	ModifiedAt       time.Time `json:"modified_at"`
	Info             font.Info `json:"info"`
	Axes             []string  `json:"axes"`
	Sources          int       `json:"sources"`
	KerningSets      int       `json:"kerning_sets"`
	FeaturesBytes    int       `json:"features_bytes"`
	Glyphs           int       `json:"glyphs"`
	MappedGlyphs     int       `json:"mapped_glyphs"`
	BackgroundImages int       `json:"background_images"`
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("show", `Usage: fontstore show <id>

Shows a summary of a project's font document and glyphs.
`)
	pos, err := a.parse(fs, args, "id")
	if err != nil {
		return helpOrErr(err)
	}
	id := pos[0]

	return a.withBackend(ctx, func(b backend.Backend) error {
		proj, err := b.GetProject(ctx, id)
		if err != nil {
			return errors.FromBackend("read project", err)
		}
		if proj == nil {
			return projectNotFound(id)
		}

		h, err := b.OpenFontHandle(ctx, id)
		if err != nil {
			return errors.FromBackend("open project", err)
		}
		doc, err := h.GetDocument(ctx)
		if err != nil {
			return errors.FromBackend("read font document", err)
		}
		names, err := h.ListGlyphNames(ctx)
		if err != nil {
			return errors.FromBackend("list glyphs", err)
		}
		gm, err := h.GetGlyphMap(ctx)
		if err != nil {
			return errors.FromBackend("read glyph map", err)
		}
		images, err := h.ListBackgroundImages(ctx)
		if err != nil {
			return errors.FromBackend("list background images", err)
		}

		result := ShowResult{
			ID:               id,
			CreatedAt:        proj.CreatedAt,
			ModifiedAt:       proj.ModifiedAt,
			Info:             doc.Info,
			Axes:             make([]string, 0, len(doc.Axes)),
			Sources:          len(doc.Sources),
			KerningSets:      len(doc.Kerning),
			FeaturesBytes:    len(doc.Features),
			Glyphs:           len(names),
			MappedGlyphs:     len(gm),
			BackgroundImages: len(images),
		}
		for _, ax := range doc.Axes {
			result.Axes = append(result.Axes, ax.Tag)
		}

		return a.emit(result, func(p *ui.Printer) {
			p.Header("Project " + id)
			p.Field("Family", result.Info.FamilyName)
			p.Field("Units per em", result.Info.UnitsPerEm)
			p.Field("Ascender", result.Info.Ascender)
			p.Field("Descender", result.Info.Descender)
			p.Field("Axes", len(result.Axes))
			p.Field("Sources", result.Sources)
			p.Field("Glyphs", fmt.Sprintf("%s (%d mapped)", ui.CountText(result.Glyphs), result.MappedGlyphs))
			p.Field("Images", result.BackgroundImages)
			p.Field("Created", formatTime(result.CreatedAt))
			p.Field("Modified", formatTime(result.ModifiedAt))
		})
	})
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
