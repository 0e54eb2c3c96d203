package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		in         PageRequest
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"empty", PageRequest{}, 1, DefaultPageSize, 0},
		{"third_page", PageRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"oversized", PageRequest{Page: 2, PageSize: 500}, 2, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("Defaults() = %+v, want page %d size %d", req, tt.wantPage, tt.wantSize)
			}
			if req.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", req.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[string](nil, 1, 20, 41)
	if resp.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.TotalPages)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("Data = %#v, want empty slice", resp.Data)
	}

	if got := NewPageResponse([]int{1}, 1, 20, 20).TotalPages; got != 1 {
		t.Errorf("TotalPages for exact fit = %d, want 1", got)
	}
}
