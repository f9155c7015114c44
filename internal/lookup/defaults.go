package lookup

// Built-in reference data. These tables are copied into every Tables value
// returned by Default, so callers may modify their copy freely.

var defaultRegions = map[string]string{
	"AG": "LATAM",
	"AI": "LATAM",
	"AW": "LATAM",
	"BB": "LATAM",
	"BJ": "EMEA",
	"BM": "LATAM",
	"BQ": "LATAM",
	"BS": "LATAM",
	"BZ": "LATAM",
	"CA": "NA",
	"CW": "LATAM",
	"GD": "LATAM",
	"GL": "EMEA",
	"GP": "LATAM",
	"JM": "LATAM",
	"KN": "LATAM",
	"KY": "LATAM",
	"LC": "LATAM",
	"MQ": "LATAM",
	"PR": "LATAM",
	"SX": "LATAM",
	"TC": "LATAM",
	"TT": "LATAM",
	"VC": "LATAM",
	"VG": "LATAM",
	"VI": "LATAM",
}

// defaultRegionOverrides reassign codes whose source region is known to be
// wrong; applied after the lookup fill, regardless of the prior value.
var defaultRegionOverrides = map[string]string{
	"AM": "EMEA",
	"AZ": "EMEA",
	"RU": "EMEA",
	"UZ": "EMEA",
	"US": "NA",
}

var defaultProductNames = map[string]string{
	"Apple Airpods Headphones":    "Apple Airpods Headphones",
	"27in 4K gaming monitor":      "Dell 27in 4K Gaming Monitor",
	"Samsung Charging Cable Pack": "Samsung Charging Cable Pack",
	"Samsung Webcam":              "Samsung Slimfit Webcam",
	"Macbook Air Laptop":          "Apple Macbook Air Laptop",
	"ThinkPad Laptop":             "Lenovo ThinkPad Laptop",
	"Apple iPhone":                "Apple iPhone",
	`27in"" 4k gaming monitor`:    "Dell 27in 4K Gaming Monitor",
	"bose soundsport headphones":  "Bose Soundsport Headphones",
}

// defaultPatches: Namibia's ISO code "NA" is commonly lost as a null marker
// upstream, leaving its region unset.
var defaultPatches = []Patch{
	{Key: "country_code", Value: "NA", Set: map[string]string{"region": "EMEA"}, OnlyNull: true},
}

var defaultCountryNames = map[string]string{
	"AD": "Andorra",
	"AE": "United Arab Emirates",
	"AG": "Antigua and Barbuda",
	"AI": "Anguilla",
	"AL": "Albania",
	"AM": "Armenia",
	"AO": "Angola",
	"AR": "Argentina",
	"AS": "American Samoa",
	"AT": "Austria",
	"AU": "Australia",
	"AW": "Aruba",
	"AX": "Aland Islands",
	"AZ": "Azerbaijan",
	"BA": "Bosnia and Herzegovina",
	"BB": "Barbados",
	"BD": "Bangladesh",
	"BE": "Belgium",
	"BF": "Burkina Faso",
	"BG": "Bulgaria",
	"BH": "Bahrain",
	"BJ": "Benin",
	"BM": "Bermuda",
	"BN": "Brunei Darussalam",
	"BO": "Bolivia",
	"BQ": "Bonaire, Sint Eustatius and Saba",
	"BR": "Brazil",
	"BS": "Bahamas",
	"BT": "Bhutan",
	"BW": "Botswana",
	"BY": "Belarus",
	"BZ": "Belize",
	"CA": "Canada",
	"CD": "Congo (Democratic Republic)",
	"CH": "Switzerland",
	"CI": "Cote d'Ivoire",
	"CK": "Cook Islands",
	"CL": "Chile",
	"CM": "Cameroon",
	"CN": "China",
	"CO": "Colombia",
	"CR": "Costa Rica",
	"CU": "Cuba",
	"CV": "Cabo Verde",
	"CW": "Curacao",
	"CY": "Cyprus",
	"CZ": "Czechia",
	"DE": "Germany",
	"DK": "Denmark",
	"DO": "Dominican Republic",
	"DZ": "Algeria",
	"EC": "Ecuador",
	"EE": "Estonia",
	"EG": "Egypt",
	"ES": "Spain",
	"ET": "Ethiopia",
	"FI": "Finland",
	"FJ": "Fiji",
	"FO": "Faroe Islands",
	"FR": "France",
	"GB": "United Kingdom",
	"GD": "Grenada",
	"GE": "Georgia",
	"GF": "French Guiana",
	"GG": "Guernsey",
	"GH": "Ghana",
	"GI": "Gibraltar",
	"GL": "Greenland",
	"GN": "Guinea",
	"GP": "Guadeloupe",
	"GR": "Greece",
	"GT": "Guatemala",
	"GU": "Guam",
	"GY": "Guyana",
	"HK": "Hong Kong",
	"HN": "Honduras",
	"HR": "Croatia",
	"HT": "Haiti",
	"HU": "Hungary",
	"ID": "Indonesia",
	"IE": "Ireland",
	"IL": "Israel",
	"IM": "Isle of Man",
	"IN": "India",
	"IQ": "Iraq",
	"IR": "Iran",
	"IS": "Iceland",
	"IT": "Italy",
	"JE": "Jersey",
	"JM": "Jamaica",
	"JO": "Jordan",
	"JP": "Japan",
	"KE": "Kenya",
	"KG": "Kyrgyzstan",
	"KH": "Cambodia",
	"KN": "Saint Kitts and Nevis",
	"KR": "South Korea",
	"KW": "Kuwait",
	"KY": "Cayman Islands",
	"KZ": "Kazakhstan",
	"LA": "Laos",
	"LB": "Lebanon",
	"LC": "Saint Lucia",
	"LI": "Liechtenstein",
	"LK": "Sri Lanka",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"MA": "Morocco",
	"MC": "Monaco",
	"MD": "Moldova",
	"ME": "Montenegro",
	"MG": "Madagascar",
	"MH": "Marshall Islands",
	"MK": "North Macedonia",
	"ML": "Mali",
	"MM": "Myanmar",
	"MN": "Mongolia",
	"MO": "Macao",
	"MP": "Northern Mariana Islands",
	"MQ": "Martinique",
	"MR": "Mauritania",
	"MT": "Malta",
	"MU": "Mauritius",
	"MV": "Maldives",
	"MW": "Malawi",
	"MX": "Mexico",
	"MY": "Malaysia",
	"MZ": "Mozambique",
	"NA": "Namibia",
	"NC": "New Caledonia",
	"NG": "Nigeria",
	"NI": "Nicaragua",
	"NL": "Netherlands",
	"NO": "Norway",
	"NP": "Nepal",
	"NZ": "New Zealand",
	"OM": "Oman",
	"PA": "Panama",
	"PE": "Peru",
	"PF": "French Polynesia",
	"PG": "Papua New Guinea",
	"PH": "Philippines",
	"PK": "Pakistan",
	"PL": "Poland",
	"PR": "Puerto Rico",
	"PS": "Palestine",
	"PT": "Portugal",
	"PY": "Paraguay",
	"QA": "Qatar",
	"RE": "Reunion",
	"RO": "Romania",
	"RS": "Serbia",
	"RU": "Russia",
	"RW": "Rwanda",
	"SA": "Saudi Arabia",
	"SC": "Seychelles",
	"SD": "Sudan",
	"SE": "Sweden",
	"SG": "Singapore",
	"SI": "Slovenia",
	"SK": "Slovakia",
	"SL": "Sierra Leone",
	"SN": "Senegal",
	"SO": "Somalia",
	"SV": "El Salvador",
	"SX": "Sint Maarten",
	"TC": "Turks and Caicos Islands",
	"TG": "Togo",
	"TH": "Thailand",
	"TJ": "Tajikistan",
	"TL": "Timor-Leste",
	"TN": "Tunisia",
	"TR": "Turkey",
	"TT": "Trinidad and Tobago",
	"TW": "Taiwan",
	"TZ": "Tanzania",
	"UA": "Ukraine",
	"UG": "Uganda",
	"US": "United States",
	"UY": "Uruguay",
	"UZ": "Uzbekistan",
	"VC": "Saint Vincent and the Grenadines",
	"VE": "Venezuela",
	"VG": "British Virgin Islands",
	"VI": "U.S. Virgin Islands",
	"VN": "Vietnam",
	"VU": "Vanuatu",
	"YE": "Yemen",
	"ZA": "South Africa",
	"ZM": "Zambia",
	"ZW": "Zimbabwe",}
