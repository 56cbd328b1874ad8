package profile

import (
	"testing"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
)

func TestGet(t *testing.T) {
	p := Get("lanczos")
	if p.Filter != canvas.FilterLanczos || !p.Has(phash.AHash) || !p.Has(phash.DHash) {
		t.Errorf("lanczos = %+v", p)
	}
	if len(Get("debug").Thumbnails) == 0 {
		t.Error("debug profile should dump thumbnails")
	}
}

func TestGet_UnknownFallsBack(t *testing.T) {
	p := Get("custom")
	if p.Name != "custom" || p.Filter != canvas.FilterArea {
		t.Errorf("fallback = %+v", p)
	}
	if Known("custom") || !Known("default") {
		t.Error("Known")
	}
}

func TestCacheNamespace(t *testing.T) {
	p := Get("default")
	a := p.CacheNamespace()
	p.Filter = canvas.FilterMitchell
	if a == p.CacheNamespace() {
		t.Error("filter override must change the cache namespace")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 4 || names[0] != "bilinear" {
		t.Errorf("names = %v", names)
	}
}
