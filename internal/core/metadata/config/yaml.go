package config

import (
	"gopkg.in/yaml.v3"
)

var _ yaml.Marshaler = (*Configuration)(nil)

// MarshalYAML emits an ordered mapping node so YAML output follows insertion
// order like the JSON encoding does.
func (c *Configuration) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range c.keys {
		var val yaml.Node
		if err := val.Encode(c.values[k].Interface()); err != nil {
			return nil, err
		}
		if c.values[k].Type() == Vec3 || c.values[k].Type() == Quat {
			val.Style = yaml.FlowStyle
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &val)
	}
	for _, k := range c.subKeys {
		sub, err := c.subconfigs[k].MarshalYAML()
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, sub.(*yaml.Node))
	}
	return node, nil
}
