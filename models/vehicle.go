package models

import "time"

// VehicleDetail is the fully normalized record for one listing. All vehicle
// attributes are optional: the site omits whatever the seller didn't fill in,
// and normalization never fails a record over a single bad field.
type VehicleDetail struct {
	ListingID string    `json:"listing_id" db:"listing_id"`
	URL       string    `json:"url" db:"url"`
	Title     string    `json:"title" db:"title"`
	RunID     string    `json:"run_id" db:"run_id"`
	ScrapedAt time.Time `json:"scraped_at" db:"scraped_at"`

	Price    *float64 `json:"price" db:"price"`
	Location *string  `json:"location" db:"location"`
	State    *string  `json:"state" db:"state"`
	Brand    *string  `json:"brand" db:"brand"`
	Model    *string  `json:"model" db:"model"`

	FuelType     *string  `json:"fuel_type" db:"fuel_type"`
	BuildYear    *int     `json:"build_year" db:"build_year"`
	Mileage      *int     `json:"mileage" db:"mileage"`
	EngineVolume *float64 `json:"engine_volume" db:"engine_volume"`
	EnginePower  *int     `json:"engine_power" db:"engine_power"`
	Horsepower   *int     `json:"horsepower" db:"horsepower"`
	WeightKg     *int     `json:"weight_kg" db:"weight_kg"`
	NumDoors     *string  `json:"num_doors" db:"num_doors"`
	Transmission *string  `json:"transmission" db:"transmission"`
	VehicleType  *string  `json:"vehicle_type" db:"vehicle_type"`
	Drivetrain   *string  `json:"drivetrain" db:"drivetrain"`
	Color        *string  `json:"color" db:"color"`
	Gears        *string  `json:"gears" db:"gears"`
	Emission     *string  `json:"emission" db:"emission"`

	Climate        *string `json:"climate" db:"climate"`
	Audio          *string `json:"audio" db:"audio"`
	ParkingSensors *string `json:"parking_sensors" db:"parking_sensors"`
	ParkingCamera  *string `json:"parking_camera" db:"parking_camera"`
	Interior       *string `json:"interior" db:"interior"`
	Curtains       *string `json:"curtains" db:"curtains"`
	Lights         *string `json:"lights" db:"lights"`
	NumberOfSeats  *string `json:"number_of_seats" db:"number_of_seats"`
	RimSize        *string `json:"rim_size" db:"rim_size"`
	Tyres          *string `json:"tyres" db:"tyres"`
	Warranty       *string `json:"warranty" db:"warranty"`
	Security       *string `json:"security" db:"security"`
	PreviousOwners *string `json:"previous_owners" db:"previous_owners"`

	YearFirstRegistered *string `json:"year_first_registered" db:"year_first_registered"`
	RegisteredUntil     *string `json:"registered_until" db:"registered_until"`
	PublishedAt         *string `json:"published_at" db:"published_at"`

	ImageURL   *string `json:"image_url" db:"image_url"`
	ImageS3Key *string `json:"image_s3_key" db:"image_s3_key"`

	Registered              *bool `json:"registered" db:"registered"`
	Metallic                *bool `json:"metallic" db:"metallic"`
	AlloyWheels             *bool `json:"alloy_wheels" db:"alloy_wheels"`
	DigitalAirConditioning  *bool `json:"digital_air_conditioning" db:"digital_air_conditioning"`
	SteeringWheelControls   *bool `json:"steering_wheel_controls" db:"steering_wheel_controls"`
	Navigation              *bool `json:"navigation" db:"navigation"`
	TouchScreen             *bool `json:"touch_screen" db:"touch_screen"`
	HeadsUpDisplay          *bool `json:"heads_up_display" db:"heads_up_display"`
	USBPort                 *bool `json:"usb_port" db:"usb_port"`
	CruiseControl           *bool `json:"cruise_control" db:"cruise_control"`
	Bluetooth               *bool `json:"bluetooth" db:"bluetooth"`
	CarPlay                 *bool `json:"car_play" db:"car_play"`
	RainSensor              *bool `json:"rain_sensor" db:"rain_sensor"`
	ParkAssist              *bool `json:"park_assist" db:"park_assist"`
	AutomaticLightSensor    *bool `json:"automatic_light_sensor" db:"automatic_light_sensor"`
	BlindSpotSensor         *bool `json:"blind_spot_sensor" db:"blind_spot_sensor"`
	StartStopSystem         *bool `json:"start_stop_system" db:"start_stop_system"`
	HillAssist              *bool `json:"hill_assist" db:"hill_assist"`
	SeatMemory              *bool `json:"seat_memory" db:"seat_memory"`
	SeatMassage             *bool `json:"seat_massage" db:"seat_massage"`
	SeatHeating             *bool `json:"seat_heating" db:"seat_heating"`
	SeatCooling             *bool `json:"seat_cooling" db:"seat_cooling"`
	ElectricWindows         *bool `json:"electric_windows" db:"electric_windows"`
	ElectricSeatAdjustment  *bool `json:"electric_seat_adjustment" db:"electric_seat_adjustment"`
	Armrest                 *bool `json:"armrest" db:"armrest"`
	PanoramicRoof           *bool `json:"panoramic_roof" db:"panoramic_roof"`
	Sunroof                 *bool `json:"sunroof" db:"sunroof"`
	FogLights               *bool `json:"fog_lights" db:"fog_lights"`
	ElectricMirrors         *bool `json:"electric_mirrors" db:"electric_mirrors"`
	Alarm                   *bool `json:"alarm" db:"alarm"`
	CentralLock             *bool `json:"central_lock" db:"central_lock"`
	RemoteUnlock            *bool `json:"remote_unlock" db:"remote_unlock"`
	Airbag                  *bool `json:"airbag" db:"airbag"`
	ABS                     *bool `json:"abs" db:"abs"`
	ElectronicStability     *bool `json:"electronic_stability" db:"electronic_stability"`
	DPFFilter               *bool `json:"dpf_fap_filter" db:"dpf_fap_filter"`
	PowerSteering           *bool `json:"power_steering" db:"power_steering"`
	Turbo                   *bool `json:"turbo" db:"turbo"`
	Isofix                  *bool `json:"isofix" db:"isofix"`
	TowHook                 *bool `json:"tow_hook" db:"tow_hook"`
	CustomsCleared          *bool `json:"customs_cleared" db:"customs_cleared"`
	ForeignLicensePlates    *bool `json:"foreign_license_plates" db:"foreign_license_plates"`
	OnLease                 *bool `json:"on_lease" db:"on_lease"`
	ServiceHistory          *bool `json:"service_history" db:"service_history"`
	Damaged                 *bool `json:"damaged" db:"damaged"`
	DisabledAccessible      *bool `json:"disabled_accessible" db:"disabled_accessible"`
	Oldtimer                *bool `json:"oldtimer" db:"oldtimer"`
}
