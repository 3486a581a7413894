package geoip

import "testing"

func hamburgPolygon() []Point {
	return []Point{
		{Lat: 53.63975308945899, Lon: 9.764785766601562},
		{Lat: 53.59494998253459, Lon: 9.827270507812},
		{Lat: 53.663153974456456, Lon: 9.9151611328125},
		{Lat: 53.65582987649682, Lon: 9.976272583007812},
		{Lat: 53.68613523817129, Lon: 9.992752075195312},
		{Lat: 53.68674518938816, Lon: 10.051460266113281},
		{Lat: 53.72495117617815, Lon: 10.075492858886719},
		{Lat: 53.71946627930625, Lon: 10.118408203125},
		{Lat: 53.743635083157756, Lon: 10.164413452148438},
		{Lat: 53.73104466704585, Lon: 10.202865600585938},
		{Lat: 53.676781546441546, Lon: 10.16304016113281},
		{Lat: 53.632832079199474, Lon: 10.235824584960938},
		{Lat: 53.608803292930894, Lon: 10.2008056640625},
		{Lat: 53.578646152866504, Lon: 10.208358764648438},
		{Lat: 53.57212285981298, Lon: 10.163726806640625},
		{Lat: 53.52071674896369, Lon: 10.18707275390625},
		{Lat: 53.52643162253097, Lon: 10.224151611328125},
		{Lat: 53.44062753992289, Lon: 10.347747802734375},
		{Lat: 53.38824275010831, Lon: 10.248870849609375},
		{Lat: 53.38824275010831, Lon: 10.15960693359375},
		{Lat: 53.44635321212876, Lon: 10.064849853515625},
		{Lat: 53.40595029739904, Lon: 9.985198974609375},
		{Lat: 53.42385506057106, Lon: 9.951210021972656},
		{Lat: 53.41843327091211, Lon: 9.944171905517578},
		{Lat: 53.41812635648326, Lon: 9.927349090576172},
		{Lat: 53.412294561442884, Lon: 9.917736053466797},
		{Lat: 53.41464783813818, Lon: 9.901256561279297},
		{Lat: 53.443490472483326, Lon: 9.912586212158201},
		{Lat: 53.45177144115704, Lon: 9.897651672363281},
		{Lat: 53.43633277935392, Lon: 9.866924285888672},
		{Lat: 53.427639673754776, Lon: 9.866409301757812},
		{Lat: 53.427639673754776, Lon: 9.858856201171875},
		{Lat: 53.46710230573499, Lon: 9.795513153076172},
		{Lat: 53.49039461941655, Lon: 9.795341491699219},
		{Lat: 53.49029248806277, Lon: 9.77903366088867},
		{Lat: 53.49856433088649, Lon: 9.780235290527344},
		{Lat: 53.5078554643033, Lon: 9.758434295654297},
		{Lat: 53.545407634092975, Lon: 9.759807586669922},
		{Lat: 53.568147234570084, Lon: 9.633293151855469},
		{Lat: 53.58802162343514, Lon: 9.655780792236328},
		{Lat: 53.568351121879815, Lon: 9.727706909179688},
		{Lat: 53.60921067445695, Lon: 9.737663269042969},
	}
}

func TestPolygonContainsHamburg(t *testing.T) {
	if !PolygonContains(hamburgPolygon(), Point{Lat: 53.551085, Lon: 9.993682}) {
		t.Error("expected a point inside Hamburg to be contained")
	}
}

func TestPolygonDoesNotContainBerlin(t *testing.T) {
	if PolygonContains(hamburgPolygon(), Point{Lat: 52.52437, Lon: 13.41053}) {
		t.Error("expected Berlin to be outside the Hamburg polygon")
	}
}

func TestPolygonDoesNotContainNewYork(t *testing.T) {
	if PolygonContains(hamburgPolygon(), Point{Lat: 40.726662, Lon: -74.036677}) {
		t.Error("expected New York to be outside the Hamburg polygon")
	}
}
