package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var durationKeySuffixes = []string{"delay", "interval", "backoff", "after", "debounce"}

// WriteExample writes the default configuration as a commented YAML document.
func WriteExample(w io.Writer) error {
	var doc yaml.Node
	if err := doc.Encode(Default()); err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	humanizeDurations(&doc)
	doc.HeadComment = "mediascan configuration\n" +
		"Every key can be overridden with MEDIASCAN_<SECTION>_<KEY> environment variables."

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return enc.Close()
}

// humanizeDurations rewrites nanosecond integers under duration keys as "30s" style strings.
func humanizeDurations(node *yaml.Node) {
	if node.Kind != yaml.MappingNode {
		for _, child := range node.Content {
			humanizeDurations(child)
		}
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind == yaml.ScalarNode && isDurationKey(key.Value) {
			if n, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
				value.Value = time.Duration(n).String()
				value.Tag = "!!str"
			}
			continue
		}
		humanizeDurations(value)
	}
}

func isDurationKey(key string) bool {
	for _, suffix := range durationKeySuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}
