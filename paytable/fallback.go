package paytable

import (
	"github.com/shopspring/decimal"
)

// FallbackYear is the only year with an embedded table.
const FallbackYear YearKey = "2024"

// fallbackRows is the TVöD (VKA) table valid from 2024-03-01.
// An empty string marks a step without amount.
var fallbackRows = map[GradeKey][StepsPerGrade]string{
	"EG 15Ü": {"6670.43", "7379.87", "8051.94", "8500.01", "8604.56", ""},
	"EG 15":  {"5504.00", "5863.92", "6265.40", "6813.49", "7377.29", "7748.20"},
	"EG 14":  {"5003.84", "5329.75", "5755.37", "6227.68", "6754.16", "7132.13"},
	"EG 13":  {"4628.76", "4985.95", "5392.57", "5834.04", "6353.53", "6635.44"},
	"EG 12":  {"4170.32", "4581.34", "5061.67", "5594.63", "6220.01", "6516.74"},
	"EG 11":  {"4032.38", "4410.41", "4765.62", "5151.01", "5678.44", "5975.19"},
	"EG 10":  {"3895.33", "4191.53", "4528.25", "4893.44", "5300.10", "5433.63"},
	"EG 9c":  {"3757.21", "4013.80", "4334.08", "4683.04", "5061.38", "5182.84"},
	"EG 9b":  {"3619.09", "3736.32", "4029.91", "4352.06", "4706.63", "5003.35"},
	"EG 9a":  {"3480.97", "3699.68", "3759.84", "3963.16", "4335.69", "4483.10"},
	"EG 8":   {"3281.44", "3486.59", "3628.68", "3770.54", "3922.69", "3995.85"},
	"EG 7":   {"3095.23", "3331.58", "3472.38", "3614.47", "3748.49", "3820.45"},
	"EG 6":   {"3042.04", "3236.55", "3372.94", "3507.92", "3640.49", "3708.02"},
	"EG 5":   {"2928.99", "3117.67", "3245.11", "3380.06", "3505.47", "3570.28"},
	"EG 4":   {"2802.62", "2993.55", "3153.75", "3253.48", "3353.20", "3411.60"},
	"EG 3":   {"2762.69", "2968.02", "3017.99", "3132.21", "3217.92", "3296.43"},
	"EG 2Ü":  {"2601.60", "2835.82", "2921.62", "3036.03", "3114.63", "3173.31"},
	"EG 2":   {"2582.16", "2784.28", "2834.67", "2906.58", "3064.63", "3229.97"},
	"EG 1":   {"", "2355.52", "2388.86", "2430.55", "2469.42", "2569.47"},
}

// FallbackTable returns a fresh copy of the embedded table for FallbackYear.
// It carries no TableMeta, so validity comes from DefaultValidFrom.
func FallbackTable() *PayTable {
	t := &PayTable{Year: FallbackYear, Entries: make(map[GradeKey]Row, len(fallbackRows))}
	for grade, cells := range fallbackRows {
		var row Row
		for i, s := range cells {
			if s == "" {
				continue
			}
			row[i] = NewCell(decimal.RequireFromString(s))
		}
		t.Entries[grade] = row
	}
	return t
}
