// Package testutil holds shared test doubles and fixtures for the care-record bot.
//
// Mocks follow the testify pattern: construct with the test, register
// expectations with On, assert with AssertExpectations.
//
//	dao := testutil.NewMockRecordDAO(t)
//	dao.On("ListRecords", mock.Anything, mock.Anything).Return(testutil.SampleRecordEntries(), nil)
package testutil
