// Package render turns hydrology API responses into displayable states and
// draws those states as terminal tables, HTML or chat messages.
package render

import "github.com/abelzeko/hydro-dash/internal/entities"

// Placeholder is shown when none of a field's keys hold a value
const Placeholder = "暂无数据"

// Field is one table column. Keys are tried in order and the first
// present, non-empty value wins.
type Field struct {
	Header string
	Keys   []string
}

// Lookup returns the cell text for rec. Only absent, null and empty-string
// values fall through to the next key, so 0 and false are shown as "0" and
// "false" rather than the placeholder (a 0 m³/s outflow is a reading).
func (f Field) Lookup(rec entities.ResultRecord) string {
	for _, key := range f.Keys {
		if v, ok := rec.Text(key); ok {
			return v
		}
	}
	return Placeholder
}

// LocationFields are the station metadata columns. Each field accepts the
// localized key first and the transliterated key second.
var LocationFields = []Field{
	{Header: "站名", Keys: []string{"站名", "name"}},
	{Header: "行政区", Keys: []string{"行政区", "district"}},
	{Header: "地址", Keys: []string{"地址", "address"}},
	{Header: "流域", Keys: []string{"流域", "basin"}},
	{Header: "水系", Keys: []string{"水系", "waterSystem"}},
	{Header: "河名", Keys: []string{"河名", "river"}},
	{Header: "测站类型", Keys: []string{"测站类型", "stationType"}},
	{Header: "经度", Keys: []string{"经度", "longitude"}},
	{Header: "纬度", Keys: []string{"纬度", "latitude"}},
}

// RealTimeFields are the reservoir telemetry columns
var RealTimeFields = []Field{
	{Header: "河名", Keys: []string{"河名"}},
	{Header: "库名", Keys: []string{"库名"}},
	{Header: "水位(m)", Keys: []string{"库水位"}},
	{Header: "入库流量(m³/s)", Keys: []string{"入库流速"}},
	{Header: "出库流量(m³/s)", Keys: []string{"出库流速"}},
	{Header: "蓄水量(亿m³)", Keys: []string{"蓄水量"}},
	{Header: "更新时间", Keys: []string{"同步时间"}},
}

// Headers returns the column headers of fields
func Headers(fields []Field) []string {
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Header
	}
	return headers
}

// Row maps one record onto fields
func Row(fields []Field, rec entities.ResultRecord) []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = f.Lookup(rec)
	}
	return row
}
