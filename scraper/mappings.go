package scraper

// Static lookup tables translating the site's vocabulary into the domain
// vocabulary. Lookups fall through to the raw value on a miss so new site
// terms survive normalization instead of being dropped.

var fuelTypeMapping = map[string]string{
	"Dizel":      "Diesel",
	"Benzin":     "Gasoline",
	"Plin":       "LPG",
	"Hibrid":     "Hybrid",
	"Električni": "Electric",
	"Ostalo":     "Other",
}

var transmissionMapping = map[string]string{
	"Manuelni":       "Manual",
	"Automatik":      "Automatic",
	"Poluautomatski": "Semi-automatic",
	"Ostalo":         "Other",
}

var stateMapping = map[string]string{
	"Novo":      "New",
	"Korišteno": "Used",
	"Ostalo":    "Other",
}

var drivetrainMapping = map[string]string{
	"Prednji": "FWD",
	"Zadnji":  "RWD",
	"4x4":     "AWD",
	"Ostalo":  "Other",
}

var climateMapping = map[string]string{
	"Jednozonska":   "Single-zone",
	"Dvozonska":     "Dual-zone",
	"Trozonska":     "Triple-zone",
	"Četverozonska": "Quad-zone",
	"Automatska":    "Automatic",
	"Ostalo":        "Other",
}

var audioMapping = map[string]string{
	"Kasetofon":                "Cassette",
	"CD":                       "CD",
	"CP MP3":                   "MP3",
	"CD MP3 plus pojačalo":     "CD MP3 amplifier",
	"DVD MP3 plus LCD display": "DVD MP3 LCD",
	"Ostalo":                   "Other",
}

var parkingSensorsMapping = map[string]string{
	"Nema":             "None",
	"Naprijed":         "Front",
	"Nazad":            "Rear",
	"Naprijed i nazad": "Front and rear",
	"Ostalo":           "Other",
}

var parkingCameraMapping = map[string]string{
	"Nema":             "None",
	"Prednja":          "Front",
	"Zadnja":           "Rear",
	"Prednja i zadnja": "Front and rear",
	"Kamera 360":       "360 camera",
	"Ostalo":           "Other",
}

var interiorMapping = map[string]string{
	"Koža":            "Leather",
	"Platno":          "Fabric",
	"Alkantara":       "Alcantara",
	"Koža i platno":   "Leather and fabric",
	"Koža i alkantara": "Leather and alcantara",
	"Ostalo":          "Other",
}

var curtainMapping = map[string]string{
	"Nema":   "None",
	"Bočne":  "Side",
	"Zadnje": "Rear",
	"Ostalo": "Other",
}

var lightsMapping = map[string]string{
	"Halogena": "Halogen",
	"Xenon":    "Xenon",
	"LED":      "LED",
	"Laser":    "Laser",
	"Ostalo":   "Other",
}

var seatsMapping = map[string]string{
	"Više": "More than 8",
}

var securityMapping = map[string]string{
	"Blokada mjenjača":      "Transmission lock",
	"Blokada volana":        "Steering wheel lock",
	"Blokada točka":         "Wheel lock",
	"Električna blokada":    "Electric lock",
	"Električna+mehanička":  "Electric and mechanical lock",
	"Ostalo":                "Other",
}

var tyresMapping = map[string]string{
	"Ljetne":          "Summer",
	"Zimske":          "Winter",
	"Ljetne i zimske": "Summer and winter",
	"Ostalo":          "Other",
}

var previousOwnersMapping = map[string]string{
	"Prvi vlasnik": "First owner",
	"Više od 5":    "More than 5",
}

var vehicleTypeMapping = map[string]string{
	"Limuzina":      "Sedan",
	"Malo auto":     "Small car",
	"Karavan":       "Station wagon",
	"Monovolumen":   "Monovolume",
	"Kombi":         "Van",
	"Terenac":       "Suburban",
	"SUV":           "SUV",
	"Kabriolet":     "Convertible",
	"Sportski/kupe": "Sport/Coupe",
	"Off Road":      "Off-road",
	"Caddy":         "Caddy",
	"Pick up":       "Pickup",
	"Oldtimer":      "Vintage",
	"Ostalo":        "Other",
}

var firstRegisteredMapping = map[string]string{
	"Starije": "Older",
}

var colorMapping = map[string]string{
	"Bež":         "Beige",
	"Bijela":      "White",
	"Bordo":       "Burgundy",
	"Crna":        "Black",
	"Crvena":      "Red",
	"Ljubičasta":  "Purple",
	"Narandžasta": "Orange",
	"Plava":       "Blue",
	"Siva":        "Gray",
	"Smeđa":       "Brown",
	"Srebrena":    "Silver",
	"Zelena":      "Green",
	"Zlatna":      "Gold",
	"Žuta":        "Yellow",
	"Ostalo":      "Other",
}

var rimSizeMapping = map[string]string{
	"Ostalo": "Other",
}

var warrantyMapping = map[string]string{
	"Nema": "None",
}
