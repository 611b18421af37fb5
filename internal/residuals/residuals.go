// Package residuals загружает таблицу остаточных стоимостей из YAML.
//
// Формат файла: категория -> срок в месяцах -> доля цены.
//
//	economy:
//	  24: 0.55
//	  36: 0.47
package residuals

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
)

// Parse разбирает таблицу из YAML
func Parse(data []byte) (calculations.ResidualTable, error) {
	var raw map[string]map[int]float64
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse residual table: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("residual table is empty")
	}

	table := make(calculations.ResidualTable, len(raw))
	for name, points := range raw {
		category, err := calculations.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			return nil, fmt.Errorf("category %s has no residual points", name)
		}
		converted := make(map[int]float64, len(points))
		for term, share := range points {
			if term <= 0 {
				return nil, fmt.Errorf("category %s: term %d must be positive", name, term)
			}
			if share <= 0 || share > 1 {
				return nil, fmt.Errorf("category %s: residual %.4f for term %d must be in (0; 1]", name, share, term)
			}
			converted[term] = share
		}
		table[category] = converted
	}
	return table, nil
}

// Load читает таблицу из файла
func Load(path string) (calculations.ResidualTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read residual table %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOrDefault читает таблицу из файла и дополняет ее встроенными данными
// для категорий, которых в файле нет. Пустой путь дает встроенную таблицу.
func LoadOrDefault(path string) (calculations.ResidualTable, error) {
	table := calculations.DefaultResidualTable()
	if path == "" {
		return table, nil
	}

	loaded, err := Load(path)
	if err != nil {
		return nil, err
	}
	for category, points := range loaded {
		table[category] = points
	}
	return table, nil
}
