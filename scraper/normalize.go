package scraper

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"carscout/models"
)

// DetailPayload is the JSON shape of one detail API response. Attribute
// values arrive as name/value/type triples; everything else is nested
// objects the site may or may not populate.
type DetailPayload struct {
	Attributes []DetailAttribute `json:"attributes"`
	Brand      *NamedEntity      `json:"brand"`
	Model      *NamedEntity      `json:"model"`
	State      string            `json:"state"`
	Cities     []NamedEntity     `json:"cities"`
	Images     []string          `json:"images"`
}

type DetailAttribute struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type"`
}

type NamedEntity struct {
	Name string `json:"name"`
}

const publishedDateLayout = "02.01.2006"

// Normalize maps a detail payload plus its stub into a typed VehicleDetail.
// The function is pure and total: any single field that fails to parse comes
// out nil, and only a structurally invalid input (a stub without an id)
// yields a validation error.
func Normalize(stub models.ListingStub, payload *DetailPayload) (*models.VehicleDetail, error) {
	if strings.TrimSpace(stub.ID) == "" {
		return nil, Validation(errors.New("listing stub has no id"))
	}

	a := indexAttributes(payload.Attributes)

	v := &models.VehicleDetail{
		ListingID: strings.TrimSpace(stub.ID),
		URL:       stub.URL,
		Title:     stub.Title,
		RunID:     stub.RunID,
		Price:     parsePrice(stub.RawPrice),
	}

	if payload.Brand != nil && payload.Brand.Name != "" {
		v.Brand = strptr(payload.Brand.Name)
	}
	if payload.Model != nil && payload.Model.Name != "" {
		v.Model = strptr(payload.Model.Name)
	}
	if payload.State != "" {
		v.State = mapValue(payload.State, stateMapping)
	}
	if len(payload.Cities) > 0 && payload.Cities[0].Name != "" {
		v.Location = strptr(payload.Cities[0].Name)
	}
	if len(payload.Images) > 0 && payload.Images[0] != "" {
		v.ImageURL = strptr(payload.Images[0])
	}

	v.FuelType = a.mapped("Gorivo", fuelTypeMapping)
	v.BuildYear = a.intval("Godište")
	v.Mileage = a.mileage("Kilometraža")
	v.EngineVolume = a.float("Kubikaža")
	v.EnginePower = a.intval("Snaga motora (KW)")
	v.Horsepower = a.intval("Konjskih snaga")
	v.WeightKg = a.intval("Masa/Težina (kg)")
	v.NumDoors = a.str("Broj vrata")
	v.Transmission = a.mapped("Transmisija", transmissionMapping)
	v.VehicleType = a.mapped("Tip", vehicleTypeMapping)
	v.Drivetrain = a.mapped("Pogon", drivetrainMapping)
	v.Color = a.mapped("Boja", colorMapping)
	v.Gears = a.str("Broj stepeni prijenosa")
	v.Emission = a.str("Emisioni standard")

	v.Climate = a.mapped("Klimatizacija", climateMapping)
	v.Audio = a.mapped("Muzika/ozvučenje", audioMapping)
	v.ParkingSensors = a.mapped("Parking senzori", parkingSensorsMapping)
	v.ParkingCamera = a.mapped("Parking kamera", parkingCameraMapping)
	v.Interior = a.mapped("Vrsta enterijera", interiorMapping)
	v.Curtains = a.mapped("Rolo zavjese", curtainMapping)
	v.Lights = a.mapped("Svjetla", lightsMapping)
	v.NumberOfSeats = a.mapped("Sjedećih mjesta", seatsMapping)
	v.RimSize = a.mapped("Veličina felgi", rimSizeMapping)
	v.Tyres = a.mapped("Posjeduje gume", tyresMapping)
	v.Warranty = a.mapped("Garancija", warrantyMapping)
	v.Security = a.mapped("Zaštita/Blokada", securityMapping)
	v.PreviousOwners = a.mapped("Broj prethodnih vlasnika", previousOwnersMapping)

	v.YearFirstRegistered = a.mapped("Godina prve registracije", firstRegisteredMapping)
	v.RegisteredUntil = a.str("Registrovan do")
	v.PublishedAt = a.date("Datum objave")

	v.Registered = a.boolean("Registrovan")
	v.Metallic = a.boolean("Metalik")
	v.AlloyWheels = a.boolean("Alu felge")
	v.DigitalAirConditioning = a.boolean("Digitalna klima")
	v.SteeringWheelControls = a.boolean("Komande na volanu")
	v.Navigation = a.boolean("Navigacija")
	v.TouchScreen = a.boolean("Touch screen (ekran)")
	v.HeadsUpDisplay = a.boolean("Head up display")
	v.USBPort = a.boolean("USB port")
	v.CruiseControl = a.boolean("Tempomat")
	v.Bluetooth = a.boolean("Bluetooth")
	v.CarPlay = a.boolean("Car play")
	v.RainSensor = a.boolean("Senzor kiše")
	v.ParkAssist = a.boolean("Park assist")
	v.AutomaticLightSensor = a.boolean("Senzor auto. svjetla")
	v.BlindSpotSensor = a.boolean("Senzor mrtvog ugla")
	v.StartStopSystem = a.boolean("Start-Stop sistem")
	v.HillAssist = a.boolean("Hill assist")
	v.SeatMemory = a.boolean("Memorija sjedišta")
	v.SeatMassage = a.boolean("Masaža sjedišta")
	v.SeatHeating = a.boolean("Grijanje sjedišta")
	v.SeatCooling = a.boolean("Hlađenje sjedišta")
	v.ElectricWindows = a.boolean("El. podizači stakala")
	v.ElectricSeatAdjustment = a.boolean("El. pomjeranje sjedišta")
	v.Armrest = a.boolean("Naslon za ruku")
	v.PanoramicRoof = a.boolean("Panorama krov")
	v.Sunroof = a.boolean("Šiber")
	v.FogLights = a.boolean("Maglenke")
	v.ElectricMirrors = a.boolean("Električni retrovizori")
	v.Alarm = a.boolean("Alarm")
	v.CentralLock = a.boolean("Centralna brava")
	v.RemoteUnlock = a.boolean("Daljinsko otključavanje")
	v.Airbag = a.boolean("Airbag")
	v.ABS = a.boolean("ABS")
	v.ElectronicStability = a.boolean("ESP")
	v.DPFFilter = a.boolean("DPF/FAP filter")
	v.PowerSteering = a.boolean("Servo volan")
	v.Turbo = a.boolean("Turbo")
	v.Isofix = a.boolean("ISOFIX")
	v.TowHook = a.boolean("Auto kuka")
	v.CustomsCleared = a.boolean("Ocarinjen")
	v.ForeignLicensePlates = a.boolean("Strane tablice")
	v.OnLease = a.boolean("Na lizingu")
	v.ServiceHistory = a.boolean("Servisna knjiga")
	v.Damaged = a.boolean("Udaren")
	v.DisabledAccessible = a.boolean("Prilagođen invalidima")
	v.Oldtimer = a.boolean("Oldtimer")

	return v, nil
}

// attributeIndex gives name-keyed access to the raw attribute triples with
// per-type coercion helpers. Every helper returns nil on a value it cannot
// make sense of.
type attributeIndex map[string]DetailAttribute

func indexAttributes(attrs []DetailAttribute) attributeIndex {
	idx := make(attributeIndex, len(attrs))
	for _, attr := range attrs {
		idx[attr.Name] = attr
	}
	return idx
}

// rawString decodes an attribute value to its string form regardless of
// whether the site sent it as a JSON string or number.
func (a attributeIndex) rawString(name string) (string, bool) {
	attr, ok := a[name]
	if !ok || len(attr.Value) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(attr.Value, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(attr.Value, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func (a attributeIndex) str(name string) *string {
	s, ok := a.rawString(name)
	if !ok {
		return nil
	}
	return &s
}

func (a attributeIndex) mapped(name string, table map[string]string) *string {
	s, ok := a.rawString(name)
	if !ok {
		return nil
	}
	return mapValue(s, table)
}

func (a attributeIndex) intval(name string) *int {
	s, ok := a.rawString(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// mileage parses figures like "150.000 km" with a dot thousands separator.
func (a attributeIndex) mileage(name string) *int {
	s, ok := a.rawString(name)
	if !ok {
		return nil
	}
	s = strings.Fields(s)[0]
	s = strings.ReplaceAll(s, ".", "")
	s = strings.TrimSuffix(s, "km")
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// float parses a locale number with a decimal comma, e.g. "2,0".
func (a attributeIndex) float(name string) *float64 {
	s, ok := a.rawString(name)
	if !ok {
		return nil
	}
	s = strings.Fields(s)[0]
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// date reparses the site's day-first date into ISO form.
func (a attributeIndex) date(name string) *string {
	s, ok := a.rawString(name)
	if !ok {
		return nil
	}
	t, err := time.Parse(publishedDateLayout, s)
	if err != nil {
		return nil
	}
	iso := t.Format("2006-01-02")
	return &iso
}

// boolean treats the presence of any truthy value as true: the site encodes
// equipment flags either as "true"/"false" strings or by simply listing the
// attribute.
func (a attributeIndex) boolean(name string) *bool {
	attr, ok := a[name]
	if !ok || len(attr.Value) == 0 {
		return nil
	}
	var b bool
	if err := json.Unmarshal(attr.Value, &b); err == nil {
		return &b
	}
	if s, ok := a.rawString(name); ok {
		switch strings.ToLower(s) {
		case "true", "da":
			return boolptr(true)
		case "false", "ne":
			return boolptr(false)
		}
		return boolptr(true)
	}
	return nil
}

// mapValue looks raw up in table, passing the raw value through unchanged on
// a miss so unknown site vocabulary is preserved rather than lost.
func mapValue(raw string, table map[string]string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if mapped, ok := table[raw]; ok {
		return &mapped
	}
	return &raw
}

// parsePrice parses listing prices like "25.000 KM". The site uses a dot
// thousands separator and a decimal comma; "Na upit" (price on request) and
// empty values are nil, never an error.
func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "na upit") {
		return nil
	}
	s := strings.Fields(raw)[0]
	s = strings.ReplaceAll(s, ".", "")
	s = strings.TrimSuffix(s, "KM")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func strptr(s string) *string { return &s }

func boolptr(b bool) *bool { return &b }
