package models

// ProductInfo is the JSON body returned by the product-info endpoint.
// Image and Link are null and Price and Mall are absent when no shop result
// could be found. A found result always carries all five keys.
type ProductInfo struct {
	Image *string `json:"image"`
	Link  *string `json:"link"`
	Title string  `json:"title"`
	Price *string `json:"price,omitempty"`
	Mall  *string `json:"mall,omitempty"`
}

// HealthResponse is returned by the service health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
