package storage

import (
	"fmt"
	"strings"

	"carscout/models"
)

// vehicleColumns lists every vehicles column in insert order. The vehicle
// record is wide enough (~90 columns) that the insert and upsert statements
// are assembled from this single list instead of being written out twice per
// store.
var vehicleColumns = []string{
	"listing_id", "url", "title", "run_id", "scraped_at",
	"price", "location", "state", "brand", "model",
	"fuel_type", "build_year", "mileage", "engine_volume", "engine_power",
	"horsepower", "weight_kg", "num_doors", "transmission", "vehicle_type",
	"drivetrain", "color", "gears", "emission",
	"climate", "audio", "parking_sensors", "parking_camera", "interior",
	"curtains", "lights", "number_of_seats", "rim_size", "tyres",
	"warranty", "security", "previous_owners",
	"year_first_registered", "registered_until", "published_at",
	"image_url", "image_s3_key",
	"registered", "metallic", "alloy_wheels", "digital_air_conditioning",
	"steering_wheel_controls", "navigation", "touch_screen", "heads_up_display",
	"usb_port", "cruise_control", "bluetooth", "car_play", "rain_sensor",
	"park_assist", "automatic_light_sensor", "blind_spot_sensor",
	"start_stop_system", "hill_assist", "seat_memory", "seat_massage",
	"seat_heating", "seat_cooling", "electric_windows", "electric_seat_adjustment",
	"armrest", "panoramic_roof", "sunroof", "fog_lights", "electric_mirrors",
	"alarm", "central_lock", "remote_unlock", "airbag", "abs",
	"electronic_stability", "dpf_fap_filter", "power_steering", "turbo",
	"isofix", "tow_hook", "customs_cleared", "foreign_license_plates",
	"on_lease", "service_history", "damaged", "disabled_accessible", "oldtimer",
}

// vehicleValues returns the argument slice matching vehicleColumns.
func vehicleValues(v *models.VehicleDetail) []any {
	return []any{
		v.ListingID, v.URL, v.Title, v.RunID, v.ScrapedAt,
		v.Price, v.Location, v.State, v.Brand, v.Model,
		v.FuelType, v.BuildYear, v.Mileage, v.EngineVolume, v.EnginePower,
		v.Horsepower, v.WeightKg, v.NumDoors, v.Transmission, v.VehicleType,
		v.Drivetrain, v.Color, v.Gears, v.Emission,
		v.Climate, v.Audio, v.ParkingSensors, v.ParkingCamera, v.Interior,
		v.Curtains, v.Lights, v.NumberOfSeats, v.RimSize, v.Tyres,
		v.Warranty, v.Security, v.PreviousOwners,
		v.YearFirstRegistered, v.RegisteredUntil, v.PublishedAt,
		v.ImageURL, v.ImageS3Key,
		v.Registered, v.Metallic, v.AlloyWheels, v.DigitalAirConditioning,
		v.SteeringWheelControls, v.Navigation, v.TouchScreen, v.HeadsUpDisplay,
		v.USBPort, v.CruiseControl, v.Bluetooth, v.CarPlay, v.RainSensor,
		v.ParkAssist, v.AutomaticLightSensor, v.BlindSpotSensor,
		v.StartStopSystem, v.HillAssist, v.SeatMemory, v.SeatMassage,
		v.SeatHeating, v.SeatCooling, v.ElectricWindows, v.ElectricSeatAdjustment,
		v.Armrest, v.PanoramicRoof, v.Sunroof, v.FogLights, v.ElectricMirrors,
		v.Alarm, v.CentralLock, v.RemoteUnlock, v.Airbag, v.ABS,
		v.ElectronicStability, v.DPFFilter, v.PowerSteering, v.Turbo,
		v.Isofix, v.TowHook, v.CustomsCleared, v.ForeignLicensePlates,
		v.OnLease, v.ServiceHistory, v.Damaged, v.DisabledAccessible, v.Oldtimer,
	}
}

// vehicleUpsert builds the insert-or-update statement for the vehicles
// table. placeholder renders the n-th (1-based) bind marker, so the same
// builder serves pgx ($1) and database/sql (?).
func vehicleUpsert(placeholder func(n int) string) string {
	cols := strings.Join(vehicleColumns, ", ")

	marks := make([]string, len(vehicleColumns))
	for i := range vehicleColumns {
		marks[i] = placeholder(i + 1)
	}

	sets := make([]string, 0, len(vehicleColumns))
	for _, col := range vehicleColumns[1:] { // listing_id is the conflict key
		if col == "image_s3_key" {
			// keep an already-archived image key
			sets = append(sets, "image_s3_key = COALESCE(excluded.image_s3_key, vehicles.image_s3_key)")
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
	}

	return fmt.Sprintf(
		"INSERT INTO vehicles (%s) VALUES (%s) ON CONFLICT (listing_id) DO UPDATE SET %s",
		cols, strings.Join(marks, ", "), strings.Join(sets, ", "),
	)
}
