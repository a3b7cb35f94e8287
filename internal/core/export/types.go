package export

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExtensionXLSX   = ".xlsx"
)

// Sheet names of the sales report
const (
	DataSheet     = "Filtered Data"
	LegendSheet   = "Legend"
	ForecastSheet = "Prediction Data"
)

// Palette used by the report, as RGB hex
const (
	ColorHeaderFill = "5B9BD5"
	ColorWhite      = "FFFFFF"

	ColorMaxRowFill = "C6EFCE"
	ColorMaxRowFont = "006100"
	ColorMinRowFill = "FFC7CE"
	ColorMinRowFont = "9C0006"

	ColorMaxCellFill = "D9EAD3"
	ColorMinCellFill = "F4CCCC"

	ColorQuantityFont = "8A96A0"
)

// Column describes one column of the data sheet
type Column struct {
	Header string
	Width  float64
}

// Columns is the fixed column order of the data sheet
var Columns = []Column{
	{Header: "Date", Width: 20},
	{Header: "Product Type", Width: 20},
	{Header: "Product Subtype", Width: 20},
	{Header: "Customer Category", Width: 20},
	{Header: "Customer Gender", Width: 20},
	{Header: "Age Range", Width: 20},
	{Header: "Country", Width: 20},
	{Header: "Region", Width: 20},
	{Header: "Sales Amount", Width: 20},
	{Header: "Quantity Sold", Width: 20},
	{Header: "Unit Price", Width: 20},
	{Header: "Total Sale", Width: 20},
	{Header: "Sales Change (%)", Width: 20},
}

// 1-based column numbers of the cells that get individual treatment
const (
	colDate         = 1
	colSalesAmount  = 9
	colQuantitySold = 10
	colTotalSale    = 12
	colSalesChange  = 13
)
