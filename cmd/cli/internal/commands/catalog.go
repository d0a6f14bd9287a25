package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

// catalogDump is the export file format: categories with all their live sites
type catalogDump struct {
	Categories []domain.Category `json:"categories"`
}

type ExportCmd struct{}

func (c *ExportCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	return exportCatalog(ctx, store, os.Stdout)
}

type ImportCmd struct {
	File string `help:"JSON file produced by export" required:"" type:"existingfile"`
}

func (c *ImportCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	file, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	log := globals.logger()
	categories, sites, err := importCatalog(log.WithContext(ctx), store, file)
	if err != nil {
		return err
	}
	log.Info().Int("categories", categories).Int("sites", sites).Msg("import finished")
	return nil
}

func exportCatalog(ctx context.Context, repo ports.CatalogRepository, w io.Writer) error {
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	sites, err := repo.ListSites(ctx, domain.SiteFilter{})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	byCategory := make(map[string][]domain.Site)
	for _, s := range sites {
		byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
	}
	for i := range categories {
		categories[i].Sites = byCategory[categories[i].ID]
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(catalogDump{Categories: categories})
}

// importCatalog inserts categories and sites, keeping their ids. Existing
// category ids or slugs and existing site ids are skipped.
func importCatalog(ctx context.Context, repo ports.CatalogRepository, r io.Reader) (int, int, error) {
	log := zerolog.Ctx(ctx)

	var dump catalogDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return 0, 0, fmt.Errorf("decode failed: %w", err)
	}

	var categories, sites int
	for _, c := range dump.Categories {
		existing, err := repo.GetCategory(ctx, c.ID)
		if err != nil {
			return categories, sites, err
		}
		if existing == nil {
			existing, err = repo.GetCategoryBySlug(ctx, c.Slug)
			if err != nil {
				return categories, sites, err
			}
		}

		categoryID := c.ID
		if existing != nil {
			log.Info().Str("slug", c.Slug).Msg("skipping existing category")
			categoryID = existing.ID
		} else {
			category := c
			category.Sites = nil
			if err := repo.CreateCategory(ctx, &category); err != nil {
				log.Error().Err(err).Str("slug", c.Slug).Msg("failed to import category")
				continue
			}
			categories++
		}

		for _, s := range c.Sites {
			found, err := repo.GetSite(ctx, s.ID)
			if err != nil {
				return categories, sites, err
			}
			if found != nil {
				log.Info().Str("id", s.ID).Msg("skipping existing site")
				continue
			}
			site := s
			site.CategoryID = categoryID
			site.DeletedAt = nil
			if err := repo.CreateSite(ctx, &site); err != nil {
				log.Error().Err(err).Str("id", s.ID).Msg("failed to import site")
				continue
			}
			sites++
		}
	}
	return categories, sites, nil
}
