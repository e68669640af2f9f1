package render

import "github.com/abelzeko/hydro-dash/internal/entities"

// SuccessFunc decides whether a response counts as a successful result
type SuccessFunc func(resp *entities.Response) bool

// LocationSuccess treats any non-empty data array as success.
// The stations endpoint's success flag is not consulted.
func LocationSuccess(resp *entities.Response) bool {
	return resp != nil && len(resp.Data) > 0
}

// RealTimeSuccess requires errCode 0 and a non-empty data array. A missing
// errCode fails, and a non-zero code fails even when data is present.
func RealTimeSuccess(resp *entities.Response) bool {
	return resp != nil && resp.ErrCode != nil && *resp.ErrCode == 0 && len(resp.Data) > 0
}
