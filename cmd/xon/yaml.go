package main

import (
	"math"
	"strconv"

	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	"gopkg.in/yaml.v3"
)

// yamlNode converts v to a YAML node tree. Object members keep their source
// order; where a key repeats, the first occurrence wins.
func yamlNode(v ast.Value) *yaml.Node {
	switch t := v.(type) {
	case ast.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(t)))
	case ast.Number:
		if t.IsInt() && math.Abs(float64(t)) < 1<<53 {
			return scalar("!!int", strconv.FormatInt(t.Int64(), 10))
		}
		return scalar("!!float", strconv.FormatFloat(float64(t), 'g', -1, 64))
	case ast.String:
		return scalar("!!str", string(t))
	case ast.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elt := range t {
			n.Content = append(n.Content, yamlNode(elt))
		}
		return n
	case ast.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		seen := make(map[string]bool)
		for _, m := range t {
			if seen[m.Key] {
				continue
			}
			seen[m.Key] = true
			n.Content = append(n.Content, scalar("!!str", m.Key), yamlNode(m.Value))
		}
		return n
	}
	return scalar("!!null", "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
