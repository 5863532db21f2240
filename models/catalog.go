package models

// MinDistinctServiceTypes 已有工单类型少于该数量时返回内置目录
const MinDistinctServiceTypes = 20

// ServiceTypeCatalog 内置的家电维修服务目录
var ServiceTypeCatalog = []string{
	"AC Repair & Servicing",
	"AC Installation & Relocation",
	"Refrigerator Repair & Gas Refill",
	"Freezer Repair",
	"Washing Machine Repair",
	"Dryer Repair",
	"Dishwasher Repair",
	"Microwave Repair",
	"Oven & Cooker Repair",
	"Water Heater Repair (Electric & Gas)",
	"Electric Iron Repair",
	"TV and Sound System Diagnostics",
	"Inverter AC Installation & Diagnostics",
	"Smart Home Appliance Configuration",
	"Multi-Zone Cooling Systems Setup",
	"Energy Efficiency Assessment",
	"Surge Protection Setup",
	"Heavy-duty Laundry Equipment Servicing",
	"Car AC Gas Refill (R134a / R1234yf)",
	"Car AC Compressor Repair / Replacement",
	"Evaporator & Condenser Cleaning",
	"HVAC Line Pressure Testing",
	"Cabin Air Filter Replacement",
	"Vehicle HVAC Diagnostic Scan",
	"Blower Motor & Relay Fault Repairs",
	"Leak Detection and Sealing",
	"Fleet HVAC Maintenance Plans",
	"Home Electrical Repairs",
	"Fan Installation & Servicing",
	"Generator Wiring & Repair",
	"Small Appliance Troubleshooting",
	"Preventive Maintenance Services",
	"Emergency Appliance Response",
	"AC Deep Cleaning & Mold Treatment",
	"Refrigerator Coil Cleaning",
	"Washing Machine Drum Descaling",
	"Kitchen Appliance Internal Degreasing",
	"Appliance Performance Optimization",
	"Compressor Supply & Installation",
	"AC Thermostat & Remote Replacement",
	"Fan Motors, Relays & Capacitor Replacements",
	"Refrigerator Seals & Door Gaskets",
	"Replacement of Heating Elements",
	"Genuine Spare Part Sales & Delivery",
	"Cold Room AC Installation",
	"Restaurant & Bakery Equipment Support",
	"Hospital Appliance Management Contracts",
	"Multi-site Appliance Contracts",
	"Mobile Appliance Repairs at Client Sites",
	"AC Planning for Building Projects",
}

// StandardSlots 每日可预约的上门时段
var StandardSlots = []string{
	"08:00", "09:00", "10:00", "11:00",
	"14:00", "15:00", "16:00", "17:00",
}
