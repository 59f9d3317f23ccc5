// Command snapshot prefetches every registered institution's catalog and
// writes the combined popular-courses snapshot the API consults at boot.
// Run it whenever the upstream catalog files are regenerated.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/emnesok/emnesok-api/internal/catalog"
	"github.com/emnesok/emnesok-api/internal/config"
	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

const fetchConcurrency = 8

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	log.SetPrefix("[emnesok-snapshot] ")
}

func main() {
	out := flag.String("out", "popular-snapshot.json", "output path for the snapshot")
	top := flag.Int("top", 200, "number of courses to keep")
	flag.Parse()

	cfg := config.Load()
	catalogs := catalog.NewService(cfg.CatalogBaseURL, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var mu sync.Mutex
	var all []types.CatalogCourse

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, inst := range institutions.All() {
		inst := inst
		g.Go(func() error {
			cat, err := catalogs.Load(gctx, inst.Tag)
			if err != nil {
				return err
			}
			if len(cat.Courses) == 0 {
				log.Printf("no catalog data for %s", inst.Tag)
				return nil
			}
			mu.Lock()
			for _, course := range cat.Courses {
				if course.Students > 0 {
					all = append(all, course)
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("snapshot build failed: %v", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Students != all[j].Students {
			return all[i].Students > all[j].Students
		}
		if all[i].Code != all[j].Code {
			return all[i].Code < all[j].Code
		}
		return all[i].Institution < all[j].Institution
	})
	if len(all) > *top {
		all = all[:*top]
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		log.Fatalf("encode snapshot: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write snapshot: %v", err)
	}
	log.Printf("wrote %d courses to %s", len(all), *out)
}
