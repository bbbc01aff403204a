package main

import (
	"fmt"
	"time"

	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/platform"
)

var defaultAreas = []platform.Area{
	{Name: "Metalurgia", Description: "Procesamiento de minerales y metalurgia extractiva", Color: "#B45309", Icon: "furnace"},
	{Name: "Minería", Description: "Operaciones mineras a tajo abierto y subterráneas", Color: "#1D4ED8", Icon: "pickaxe"},
	{Name: "Geología", Description: "Exploración, geomecánica y modelamiento geológico", Color: "#047857", Icon: "mountain"},
}

// seedAreas creates the default areas, skipping the ones that already exist.
func (cli *commandLine) seedAreas() error {
	for _, area := range defaultAreas {
		area.Slug = core.Slugify(area.Name)
		if _, err := cli.areaRepo.GetAreaBySlug(area.Slug); err == nil {
			continue
		} else if err != platform.ErrNotFound {
			return err
		}

		now := time.Now().UTC()
		area.IsActive = true
		area.CreatedAt = now
		area.UpdatedAt = now
		if _, err := cli.areaRepo.CreateArea(area); err != nil {
			return err
		}
		fmt.Printf("created area %q\n", area.Slug)
	}
	return nil
}
