package ioingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/edugraph/skillmap/pkg/schema"
	"gopkg.in/yaml.v3"
)

// readTaxonomy loads the reference taxonomy from a CSV file with one
// leaf row per line, or from a nested YAML tree, recognized by the
// .yaml/.yml extension.
func readTaxonomy(path string) ([]schema.TaxonomyNode, error) {
	if path == "" {
		return nil, MissingInputError("taxonomy file")
	}
	ext := strings.ToLower(filepath.Ext(path))
	var leaves [][]string
	var err error
	if ext == ".yaml" || ext == ".yml" {
		leaves, err = readTaxonomyYAML(path)
	} else {
		leaves, err = readTaxonomyCSV(path)
	}
	if err != nil {
		return nil, err
	}
	return buildNodes(path, leaves)
}

// readTaxonomyCSV reads leaf rows
// (strand,pillar,domain,skill_area,skill_set,skill_subset); trailing
// levels may be empty.
func readTaxonomyCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenInputError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// header row
	if _, err := r.Read(); err != nil {
		return nil, ParseInputError(path, 1, err)
	}

	var res [][]string
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, ParseInputError(path, line, err)
		}
		res = append(res, rec)
	}
	return res, nil
}

// readTaxonomyYAML flattens a nested YAML tree into leaf rows. The
// tree maps node names to child mappings; leaves map to null. Node
// order of the document is preserved so imports are deterministic.
func readTaxonomyYAML(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, OpenInputError(path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ParseInputError(path, 0, err)
	}
	if len(doc.Content) == 0 {
		return nil, EmptyInputError(path)
	}

	var res [][]string
	var walk func(node *yaml.Node, trail []string) error
	walk = func(node *yaml.Node, trail []string) error {
		if node.Kind != yaml.MappingNode {
			// null value: the trail ends here, record the leaf
			if len(trail) > 0 {
				res = append(res, slices.Clone(trail))
			}
			return nil
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			val := node.Content[i+1]
			if key.Kind != yaml.ScalarNode || key.Value == "" {
				return ParseInputError(path, key.Line,
					fmt.Errorf("taxonomy node name must be a non-empty string"))
			}
			if len(trail) >= len(schema.LevelNames) {
				return ParseInputError(path, key.Line,
					fmt.Errorf("taxonomy deeper than %d levels",
						len(schema.LevelNames)))
			}
			if err := walk(val, append(trail, key.Value)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc.Content[0], nil); err != nil {
		return nil, err
	}
	return res, nil
}

// buildNodes expands leaf rows into the full node set with
// deterministic IDs, parent links and leaf flags. Duplicate leaf rows
// collapse into one path.
func buildNodes(
	path string,
	leaves [][]string,
) ([]schema.TaxonomyNode, error) {
	if len(leaves) == 0 {
		return nil, EmptyInputError(path)
	}

	var res []schema.TaxonomyNode
	index := make(map[string]int) // path -> position in res
	hasChildren := make(map[string]bool)

	for i, leaf := range leaves {
		var trail []string
		for _, name := range leaf {
			name = strings.TrimSpace(name)
			if name == "" {
				break
			}
			trail = append(trail, name)
		}
		if len(trail) == 0 {
			return nil, ValidationError(i+1, "taxonomy row has no names")
		}
		if len(trail) > len(schema.LevelNames) {
			return nil, ValidationError(i+1, fmt.Sprintf(
				"taxonomy row deeper than %d levels", len(schema.LevelNames)))
		}

		parentPath := ""
		for lvl, name := range trail {
			nodePath := name
			if parentPath != "" {
				nodePath = parentPath + schema.PathSeparator + name
				hasChildren[parentPath] = true
			}
			if _, ok := index[nodePath]; !ok {
				parentID := ""
				if parentPath != "" {
					parentID = schema.NodeID(parentPath)
				}
				index[nodePath] = len(res)
				res = append(res, schema.TaxonomyNode{
					ID:       schema.NodeID(nodePath),
					Level:    lvl + 1,
					Name:     name,
					ParentID: parentID,
					Path:     nodePath,
				})
			}
			parentPath = nodePath
		}
	}

	for i := range res {
		res[i].IsLeaf = !hasChildren[res[i].Path]
	}
	return res, nil
}

// insertNodes bulk-inserts taxonomy nodes with ON CONFLICT DO NOTHING
// keyed by the deterministic path ID.
func (ing *ingestor) insertNodes(
	ctx context.Context,
	nodes []schema.TaxonomyNode,
) (int, error) {
	batchSize := ing.cfg.Database.BatchSize
	if batchSize <= 0 || batchSize > 10_000 {
		batchSize = 10_000
	}

	var total int
	for i := 0; i < len(nodes); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(nodes)})
		batch := nodes[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, n := range batch {
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d)",
				argIdx, argIdx+1, argIdx+2, argIdx+3, argIdx+4, argIdx+5,
			))
			var parent any
			if n.ParentID != "" {
				parent = n.ParentID
			}
			valueArgs = append(valueArgs,
				n.ID, n.Level, n.Name, parent, n.Path, n.IsLeaf)
			argIdx += 6
		}

		insertQuery := fmt.Sprintf(
			`INSERT INTO taxonomy_nodes
			 (id, level, name, parent_id, path, is_leaf)
			 VALUES %s
			 ON CONFLICT (id) DO NOTHING`,
			strings.Join(valueStrings, ", "),
		)

		result, err := ing.operator.Pool().Exec(ctx, insertQuery, valueArgs...)
		if err != nil {
			return 0, InsertError("taxonomy_nodes", err)
		}
		total += int(result.RowsAffected())
	}
	return total, nil
}
