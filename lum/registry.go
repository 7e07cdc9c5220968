package lum

import (
	"fmt"
	"sync"

	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/utils"

	"go.uber.org/zap"
)

// 驱动管理器打开/创建得到的数据集
type RasterDataset interface {
	Description() string
	RasterXSize() int
	RasterYSize() int
	RasterCount() int
	GeoTransform() (GeoTransform, error)
	Close() error
}

type (
	IdentifyFunc func(info *OpenInfo) bool
	OpenFunc     func(info *OpenInfo) (RasterDataset, error)
	CreateFunc   func(filename string, xSize, ySize, bands int, dt DataType, options []string) (RasterDataset, error)
)

type Driver struct {
	description string
	metadata    map[string]string
	PfnIdentify IdentifyFunc
	PfnOpen     OpenFunc
	PfnCreate   CreateFunc
}

func NewDriver(name string) *Driver {
	return &Driver{
		description: name,
		metadata:    map[string]string{},
	}
}

func (d *Driver) Description() string {
	return d.description
}

func (d *Driver) SetMetadataItem(key, value string) {
	d.metadata[key] = value
}

func (d *Driver) MetadataItem(key string) string {
	return d.metadata[key]
}

func (d *Driver) Identify(info *OpenInfo) bool {
	if d.PfnIdentify == nil {
		return false
	}
	return d.PfnIdentify(info)
}

func (d *Driver) Open(info *OpenInfo) (RasterDataset, error) {
	if d.PfnOpen == nil {
		return nil, ErrNoDriver
	}
	return d.PfnOpen(info)
}

func (d *Driver) Create(filename string, xSize, ySize, bands int, dt DataType, options []string) (RasterDataset, error) {
	if d.PfnCreate == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCreate, d.description)
	}
	return d.PfnCreate(filename, xSize, ySize, bands, dt, options)
}

// 驱动注册表，按注册顺序尝试识别
type DriverManager struct {
	drivers []*Driver
	lock    sync.RWMutex
	logTag  string
}

func NewDriverManager() *DriverManager {
	return &DriverManager{
		logTag: "DriverManager:",
	}
}

// 同名驱动已注册时返回false
func (m *DriverManager) RegisterDriver(d *Driver) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.getDriverByName(d.description) != nil {
		return false
	}
	m.drivers = append(m.drivers, d)
	log.Debug(m.logTag+"driver registered", zap.String("driver", d.description))
	return true
}

func (m *DriverManager) GetDriverByName(name string) *Driver {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.getDriverByName(name)
}

func (m *DriverManager) getDriverByName(name string) *Driver {
	for _, d := range m.drivers {
		if utils.EqualFold(d.description, name) {
			return d
		}
	}
	return nil
}

func (m *DriverManager) DriverCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.drivers)
}

func (m *DriverManager) IdentifyDriver(info *OpenInfo) *Driver {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, d := range m.drivers {
		if d.Identify(info) {
			return d
		}
	}
	return nil
}

// 打开文件，由第一个识别该文件的驱动负责解析
func (m *DriverManager) OpenEx(filename string, access Access) (ds RasterDataset, err error) {
	info, err := NewOpenInfo(filename, access)
	if err != nil {
		return
	}
	defer info.Close()
	d := m.IdentifyDriver(info)
	if d == nil {
		err = fmt.Errorf("%w: %s", ErrNoDriver, filename)
		return
	}
	return d.Open(info)
}

// 向管理器注册LUM驱动，重复调用无副作用
func RegisterLUM(m *DriverManager) {
	if m.GetDriverByName(DRIVER_NAME) != nil {
		return
	}
	d := NewDriver(DRIVER_NAME)
	d.SetMetadataItem(DCAP_RASTER, "YES")
	d.SetMetadataItem(DMD_LONGNAME, DRIVER_LONGNAME)
	d.SetMetadataItem(DMD_HELPTOPIC, DRIVER_HELPTOPIC)
	d.SetMetadataItem(DMD_EXTENSION, FILE_EXT_LUM)
	d.SetMetadataItem(DMD_CREATIONDATATYPES, "Byte UInt16")
	d.SetMetadataItem(DCAP_VIRTUALIO, "YES")

	d.PfnIdentify = Identify
	d.PfnOpen = func(info *OpenInfo) (RasterDataset, error) {
		ds, err := Open(info)
		if err != nil {
			return nil, err
		}
		return ds, nil
	}
	d.PfnCreate = func(filename string, xSize, ySize, bands int, dt DataType, options []string) (RasterDataset, error) {
		ds, err := Create(filename, xSize, ySize, bands, dt, options)
		if err != nil {
			return nil, err
		}
		return ds, nil
	}
	m.RegisterDriver(d)
}
