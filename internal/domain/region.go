package domain

import (
	"fmt"
	"strings"
)

type Region string

const (
	RegionNA  Region = "na"
	RegionEUW Region = "euw"
	RegionEUN Region = "eun"
	RegionKR  Region = "kr"
	RegionJP  Region = "jp"
	RegionOCE Region = "oce"
	RegionBR  Region = "br"
	RegionLAN Region = "lan"
	RegionLAS Region = "las"
	RegionRU  Region = "ru"
	RegionTR  Region = "tr"
)

var platformHosts = map[Region]string{
	RegionNA:  "na1.api.riotgames.com",
	RegionEUW: "euw1.api.riotgames.com",
	RegionEUN: "eun1.api.riotgames.com",
	RegionKR:  "kr.api.riotgames.com",
	RegionJP:  "jp1.api.riotgames.com",
	RegionOCE: "oc1.api.riotgames.com",
	RegionBR:  "br1.api.riotgames.com",
	RegionLAN: "la1.api.riotgames.com",
	RegionLAS: "la2.api.riotgames.com",
	RegionRU:  "ru.api.riotgames.com",
	RegionTR:  "tr1.api.riotgames.com",
}

var routingValues = map[Region]string{
	RegionNA:  "americas",
	RegionBR:  "americas",
	RegionLAN: "americas",
	RegionLAS: "americas",
	RegionOCE: "americas",
	RegionEUW: "europe",
	RegionEUN: "europe",
	RegionTR:  "europe",
	RegionRU:  "europe",
	RegionKR:  "asia",
	RegionJP:  "asia",
}

// AllRegions lists every supported server code in display order.
func AllRegions() []Region {
	return []Region{RegionNA, RegionEUW, RegionEUN, RegionKR, RegionJP, RegionOCE, RegionBR, RegionLAN, RegionLAS, RegionRU, RegionTR}
}

func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := platformHosts[r]; !ok {
		return "", fmt.Errorf("unknown region %q", s)
	}
	return r, nil
}

func (r Region) PlatformHost() string {
	return platformHosts[r]
}

// RegionalHost is the routing host used by the account and match APIs.
func (r Region) RegionalHost() string {
	if v, ok := routingValues[r]; ok {
		return v + ".api.riotgames.com"
	}
	return "americas.api.riotgames.com"
}
