package serp

import "github.com/user/serp-visibility/internal/payload"

// Metadata is copied verbatim onto every record derived from one payload.
type Metadata struct {
	JSONEndpoint string `json:"json_endpoint"`
	RawHTMLFile  string `json:"raw_html_file"`
}

// MetadataOf reads search_metadata from root. Missing values become "-".
func MetadataOf(root payload.Node) Metadata {
	meta := Metadata{JSONEndpoint: NoContext, RawHTMLFile: NoContext}
	sm, ok := root.Mapping().Get("search_metadata")
	if !ok {
		return meta
	}
	if v := sm.Mapping().String("json_endpoint"); v != "" {
		meta.JSONEndpoint = v
	}
	if v := sm.Mapping().String("raw_html_file"); v != "" {
		meta.RawHTMLFile = v
	}
	return meta
}
