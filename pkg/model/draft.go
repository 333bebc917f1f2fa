package model

// Draft field names. They double as HTML input names and JSON keys.
const (
	FieldApplicationType = "applicationType"
	FieldFullName        = "fullName"
	FieldNIN             = "nin"
	FieldPhone           = "phone"
	FieldEmail           = "email"
	FieldDistrict        = "district"
	FieldCounty          = "county"
	FieldSubcounty       = "subcounty"
	FieldParish          = "parish"
	FieldVillage         = "village"
	FieldBlockNumber     = "blockNumber"
	FieldPlotNumber      = "plotNumber"
	FieldLandSize        = "landSize"
	FieldLandDescription = "landDescription"
	FieldDocuments       = "documents"
	FieldLatitude        = "latitude"
	FieldLongitude       = "longitude"
)

// TextFields lists the string-valued draft fields in declaration order.
var TextFields = []string{
	FieldApplicationType,
	FieldFullName,
	FieldNIN,
	FieldPhone,
	FieldEmail,
	FieldDistrict,
	FieldCounty,
	FieldSubcounty,
	FieldParish,
	FieldVillage,
	FieldBlockNumber,
	FieldPlotNumber,
	FieldLandSize,
	FieldLandDescription,
}

// ApplicationDraft is the unpersisted aggregate of everything the wizard has
// collected so far. Latitude and Longitude are nil until a location is set.
type ApplicationDraft struct {
	ApplicationType ApplicationTypeID `json:"applicationType"`
	FullName        string            `json:"fullName"`
	NIN             string            `json:"nin"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	District        string            `json:"district"`
	County          string            `json:"county"`
	Subcounty       string            `json:"subcounty"`
	Parish          string            `json:"parish"`
	Village         string            `json:"village"`
	BlockNumber     string            `json:"blockNumber"`
	PlotNumber      string            `json:"plotNumber"`
	LandSize        string            `json:"landSize"`
	LandDescription string            `json:"landDescription"`
	Documents       []string          `json:"documents"`
	Latitude        *float64          `json:"latitude"`
	Longitude       *float64          `json:"longitude"`
}

// Clone returns a deep copy of the draft.
func (d ApplicationDraft) Clone() ApplicationDraft {
	out := d
	if d.Documents != nil {
		out.Documents = append([]string{}, d.Documents...)
	}
	if d.Latitude != nil {
		lat := *d.Latitude
		out.Latitude = &lat
	}
	if d.Longitude != nil {
		lng := *d.Longitude
		out.Longitude = &lng
	}
	return out
}

// Coordinates returns the captured location, if any.
func (d ApplicationDraft) Coordinates() (Coordinates, bool) {
	if d.Latitude == nil || d.Longitude == nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: *d.Latitude, Longitude: *d.Longitude}, true
}

// Text returns the string value of a text field by name.
func (d ApplicationDraft) Text(name string) (string, bool) {
	switch name {
	case FieldApplicationType:
		return string(d.ApplicationType), true
	case FieldFullName:
		return d.FullName, true
	case FieldNIN:
		return d.NIN, true
	case FieldPhone:
		return d.Phone, true
	case FieldEmail:
		return d.Email, true
	case FieldDistrict:
		return d.District, true
	case FieldCounty:
		return d.County, true
	case FieldSubcounty:
		return d.Subcounty, true
	case FieldParish:
		return d.Parish, true
	case FieldVillage:
		return d.Village, true
	case FieldBlockNumber:
		return d.BlockNumber, true
	case FieldPlotNumber:
		return d.PlotNumber, true
	case FieldLandSize:
		return d.LandSize, true
	case FieldLandDescription:
		return d.LandDescription, true
	default:
		return "", false
	}
}

// SetText assigns a text field by name. Unknown names report false.
func (d *ApplicationDraft) SetText(name, value string) bool {
	switch name {
	case FieldApplicationType:
		d.ApplicationType = ApplicationTypeID(value)
	case FieldFullName:
		d.FullName = value
	case FieldNIN:
		d.NIN = value
	case FieldPhone:
		d.Phone = value
	case FieldEmail:
		d.Email = value
	case FieldDistrict:
		d.District = value
	case FieldCounty:
		d.County = value
	case FieldSubcounty:
		d.Subcounty = value
	case FieldParish:
		d.Parish = value
	case FieldVillage:
		d.Village = value
	case FieldBlockNumber:
		d.BlockNumber = value
	case FieldPlotNumber:
		d.PlotNumber = value
	case FieldLandSize:
		d.LandSize = value
	case FieldLandDescription:
		d.LandDescription = value
	default:
		return false
	}
	return true
}
