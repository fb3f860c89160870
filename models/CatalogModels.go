package models

// CatalogItem is one line of the fixed equipment price list shown on the
// request form. The catalog is reference data only; requests carry their own
// copy of whatever lines the HOD picked.
type CatalogItem struct {
	Device  string  `json:"device" example:"SSD"`
	Brand   string  `json:"brand" example:"Any"`
	Size    string  `json:"size" example:"256GB"`
	Price   float64 `json:"price" example:"1750"`
	Usage   string  `json:"usage" example:"win-10"`
	Remarks string  `json:"remarks" example:"best and less price"`
}

// EquipmentCatalog returns the hard-coded price list used by the request
// creation and edit forms.
func EquipmentCatalog() []CatalogItem {
	return []CatalogItem{
		{Device: "SSD", Brand: "Any", Size: "256GB", Price: 1750, Usage: "win-10", Remarks: "best and less price"},
		{Device: "RAM", Brand: "Any", Size: "8GB ddr3", Price: 1600, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Motherboard", Brand: "Any", Size: "G41-LGA 775 Socket", Price: 1800, Usage: "win-7", Remarks: "best and less price"},
		{Device: "Motherboard", Brand: "Any", Size: "H61-LGA 1155 Socket", Price: 2100, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Motherboard", Brand: "Any", Size: "H110-LGA 1151 Socket", Price: 2100, Usage: "win-11", Remarks: "best and less price"},
		{Device: "Processor", Brand: "i3 3rd gen", Size: "any", Price: 1200, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Processor", Brand: "Intel dual core", Size: "any", Price: 1000, Usage: "win-10", Remarks: "best and less price"},
		{Device: "SMPS", Brand: "Any", Size: "any", Price: 650, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Keyboard", Brand: "Any", Size: "any", Price: 700, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Mouse", Brand: "Any", Size: "any", Price: 400, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Keyboard-Mouse combo", Brand: "Any", Size: "any", Price: 1000, Usage: "win-10", Remarks: "best and less price"},
		{Device: "USB to PS2 Connector", Brand: "Any", Size: "any", Price: 650, Usage: "win-10", Remarks: "best and less price"},
		{Device: "USB to LAN Connector", Brand: "Any", Size: "any", Price: 650, Usage: "win-10", Remarks: "best and less price"},
		{Device: "Monitor", Brand: "Any", Size: "any", Price: 5600, Usage: "win-11", Remarks: "best and less price"},
		{Device: "One Set (i3)", Brand: "G61 + H61", Size: "SSD 256GB + RAM 8GB", Price: 7200, Usage: "-", Remarks: "Souza's Price 7200"},
		{Device: "One Set (i5)", Brand: "Gh110", Size: "SSD 256GB + RAM 8GB ddr4", Price: 8800, Usage: "-", Remarks: "Souza's Price 8800"},
		{Device: "One Set (Dual core)", Brand: "G41", Size: "SSD 256GB + RAM 8GB", Price: 6500, Usage: "-", Remarks: "Souza's Price"},
	}
}
