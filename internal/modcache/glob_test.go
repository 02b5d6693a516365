package modcache

import (
	"reflect"
	"testing"
)

func TestFilterExtractedFilesKeepsOnlyMatching(t *testing.T) {
	files := []string{"linux/mod.so", "win64/mod.dll", "metadata.json"}
	got, err := FilterExtractedFiles(files, []string{"**/*.dll", "metadata.json"})
	if err != nil {
		t.Fatalf("FilterExtractedFiles: %v", err)
	}
	want := []string{"win64/mod.dll", "metadata.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterExtractedFiles = %v, want %v", got, want)
	}
}

func TestFilterExtractedFilesNilPatternsKeepsAll(t *testing.T) {
	files := []string{"a", "b"}
	got, err := FilterExtractedFiles(files, nil)
	if err != nil {
		t.Fatalf("FilterExtractedFiles: %v", err)
	}
	if !reflect.DeepEqual(got, files) {
		t.Fatalf("FilterExtractedFiles(nil) = %v, want %v", got, files)
	}
}
