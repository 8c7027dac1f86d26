package pagination

import "testing"

func TestPageRequest(t *testing.T) {
	tests := []struct {
		name       string
		in         PageRequest
		wantZero   bool
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{name: "empty", in: PageRequest{}, wantZero: true, wantPage: 1, wantSize: DefaultPageSize, wantOffset: 0},
		{name: "page only", in: PageRequest{Page: 3}, wantPage: 3, wantSize: DefaultPageSize, wantOffset: 40},
		{name: "size only", in: PageRequest{PageSize: 5}, wantPage: 1, wantSize: 5, wantOffset: 0},
		{name: "both", in: PageRequest{Page: 2, PageSize: 10}, wantPage: 2, wantSize: 10, wantOffset: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			if got := p.IsZero(); got != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", got, tt.wantZero)
			}
			p.Defaults()
			if p.Page != tt.wantPage || p.PageSize != tt.wantSize {
				t.Errorf("Defaults() = %+v, want page %d size %d", p, tt.wantPage, tt.wantSize)
			}
			if got := p.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}
